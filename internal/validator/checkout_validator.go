package validator

import (
	"regexp"
	"strings"

	"yallashop/internal/usecase"
)

var (
	// local@domain.tld
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// 整形文字なしの10桁固定
	phoneRe = regexp.MustCompile(`^\d{10}$`)

	// 5桁、任意で -4桁
	postalRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

type checkoutValidator struct{}

// Usecaseは interface を依存注入
func NewCheckoutValidator() usecase.CheckoutValidator {
	return &checkoutValidator{}
}

// 未入力の必須項目名をフォームの並び順で返す。
func (v *checkoutValidator) MissingFields(form usecase.CheckoutForm) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", form.FirstName},
		{"lastName", form.LastName},
		{"email", form.Email},
		{"phone", form.Phone},
		{"address", form.Address},
		{"city", form.City},
		{"postalCode", form.PostalCode},
	}

	missing := []string{}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// 形式チェック。未入力の項目はMissingFields側で拾うので、ここでは
// 値が入っている項目だけを見る。
func (v *checkoutValidator) ValidateForm(form usecase.CheckoutForm) []usecase.FieldError {
	errs := []usecase.FieldError{}

	if s := strings.TrimSpace(form.Email); s != "" && !emailRe.MatchString(s) {
		errs = append(errs, usecase.FieldError{Field: "email", Message: "Invalid email address"})
	}
	if s := strings.TrimSpace(form.Phone); s != "" && !phoneRe.MatchString(s) {
		errs = append(errs, usecase.FieldError{Field: "phone", Message: "Invalid phone number"})
	}
	if s := strings.TrimSpace(form.PostalCode); s != "" && !postalRe.MatchString(s) {
		errs = append(errs, usecase.FieldError{Field: "postalCode", Message: "Invalid postal code"})
	}

	return errs
}
