package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"myduka.backend/internal/config"
	"myduka.backend/internal/domain/entities"
	domainrepo "myduka.backend/internal/domain/repositories"
	"myduka.backend/internal/infrastructure/datasources/postgres"
	"myduka.backend/internal/infrastructure/mail"
	"myduka.backend/internal/infrastructure/models"
	"myduka.backend/internal/infrastructure/repositories"
	"myduka.backend/internal/usecases"
	"myduka.backend/pkg/jwt"
)

// seedRuntime is the slice of the application the seeder drives
type seedRuntime interface {
	RegisterMerchant(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	CreateStore(ctx context.Context, actor *entities.User, input *entities.CreateStoreInput) (*entities.Store, error)
	CreateAccount(ctx context.Context, actor *entities.User, input *entities.RegisterInput) (*entities.User, error)
}

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (seedRuntime, io.Closer, error)
	out     io.Writer
}

type seedRuntimeImpl struct {
	userRepo     domainrepo.UserRepository
	authUsecase  *usecases.AuthUsecase
	storeUsecase *usecases.StoreUsecase
}

// RegisterMerchant signs the merchant up and activates it straight away,
// since there is nobody to click the confirmation link during bootstrap.
func (r seedRuntimeImpl) RegisterMerchant(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	result, err := r.authUsecase.Register(ctx, nil, input)
	if err != nil {
		return nil, err
	}
	if err := r.userRepo.SetActive(ctx, result.User.ID, true); err != nil {
		return nil, err
	}
	result.User.IsActive = true
	return result.User, nil
}

func (r seedRuntimeImpl) CreateStore(ctx context.Context, actor *entities.User, input *entities.CreateStoreInput) (*entities.Store, error) {
	return r.storeUsecase.CreateStore(ctx, actor, input)
}

func (r seedRuntimeImpl) CreateAccount(ctx context.Context, actor *entities.User, input *entities.RegisterInput) (*entities.User, error) {
	result, err := r.authUsecase.Register(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	return result.User, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func prepareRuntime(cfg *config.Config) (seedRuntime, io.Closer, error) {
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	storeRepo := repositories.NewStoreRepository(db)
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.VerificationExpiry)
	return seedRuntimeImpl{
		userRepo:     userRepo,
		authUsecase:  usecases.NewAuthUsecase(userRepo, storeRepo, jwtService, mail.NewLogMailer(), cfg.Server.PublicURL),
		storeUsecase: usecases.NewStoreUsecase(storeRepo, userRepo),
	}, sqlDB, nil
}

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: prepareRuntime,
		out:     os.Stdout,
	}
}

type seedOptions struct {
	merchantUsername string
	merchantEmail    string
	merchantPassword string
	storeName        string
	clerkUsername    string
	clerkEmail       string
	clerkPassword    string
}

func parseSeedFlags(args []string) (seedOptions, error) {
	var opts seedOptions
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.StringVar(&opts.merchantUsername, "merchant-username", "merchant", "merchant username")
	fs.StringVar(&opts.merchantEmail, "merchant-email", "", "merchant email (required)")
	fs.StringVar(&opts.merchantPassword, "merchant-password", "", "merchant password (required)")
	fs.StringVar(&opts.storeName, "store", "Main Store", "name of the default store")
	fs.StringVar(&opts.clerkUsername, "clerk-username", "clerk", "clerk username")
	fs.StringVar(&opts.clerkEmail, "clerk-email", "", "clerk email; no clerk is created when empty")
	fs.StringVar(&opts.clerkPassword, "clerk-password", "", "clerk password")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.merchantEmail == "" || opts.merchantPassword == "" {
		return opts, errors.New("--merchant-email and --merchant-password are required")
	}
	if opts.clerkEmail != "" && opts.clerkPassword == "" {
		return opts, errors.New("--clerk-password is required with --clerk-email")
	}
	return opts, nil
}

func runSeed(args []string, deps seedDeps) error {
	def := defaultSeedDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	opts, err := parseSeedFlags(args)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	merchant, err := runtime.RegisterMerchant(ctx, &entities.RegisterInput{
		Username: opts.merchantUsername,
		Email:    opts.merchantEmail,
		Password: opts.merchantPassword,
	})
	if err != nil {
		return fmt.Errorf("failed creating merchant: %w", err)
	}

	store, err := runtime.CreateStore(ctx, merchant, &entities.CreateStoreInput{Name: opts.storeName})
	if err != nil {
		return fmt.Errorf("failed creating store: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "merchant_id=%s\n", merchant.ID)
	_, _ = fmt.Fprintf(deps.out, "store_id=%s\n", store.ID)

	if opts.clerkEmail == "" {
		return nil
	}
	clerk, err := runtime.CreateAccount(ctx, merchant, &entities.RegisterInput{
		Username: opts.clerkUsername,
		Email:    opts.clerkEmail,
		Password: opts.clerkPassword,
		Role:     string(entities.UserRoleClerk),
		StoreID:  &store.ID,
	})
	if err != nil {
		return fmt.Errorf("failed creating clerk: %w", err)
	}
	_, _ = fmt.Fprintf(deps.out, "clerk_id=%s\n", clerk.ID)
	return nil
}

func main() {
	if err := runSeed(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
