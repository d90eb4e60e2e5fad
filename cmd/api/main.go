package main

import (
	"time"

	"yallashop/internal/config"
	"yallashop/internal/domain/model"
	"yallashop/internal/handler"
	"yallashop/internal/infra/cache"
	"yallashop/internal/infra/db"
	"yallashop/internal/infra/mailer"
	infraRepo "yallashop/internal/infra/repository"
	"yallashop/internal/server"
	"yallashop/internal/usecase"
	"yallashop/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは開発用（無ければ環境変数だけで動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	//Redis接続（カートのスナップショット・ミラー・いいね集合）
	redisClient := cache.NewClient(cfg)

	//Repository生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	cartRepo := cache.NewCartSnapshotRedis(redisClient)
	mirrorRepo := cache.NewOrderMirrorRedis(redisClient)
	likeRepo := cache.NewLikeSetRedis(redisClient)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	checkoutValidator := validator.NewCheckoutValidator()
	gateway := mailer.NewClient(cfg.MailerURL)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, likeRepo, idGen)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, cartRepo, mirrorRepo, gateway, checkoutValidator, idGen, clock)
	paymentUC := usecase.NewPaymentUsecase(orderRepo, orderItemRepo, gateway)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	checkoutH := handler.NewCheckoutHandler(checkoutUC)
	paymentH := handler.NewPaymentHandler(paymentUC)
	orderH := handler.NewOrderHandler(orderUC)
	adminProductH := handler.NewAdminProductHandler(productUC)

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, productH, cartH, checkoutH, paymentH, orderH, adminProductH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := e.Start(addr); err != nil {
		panic(err)
	}
}
