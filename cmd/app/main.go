package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/nkarpachev/pizza-shop-backend/internal/auth"
	"github.com/nkarpachev/pizza-shop-backend/internal/cart"
	"github.com/nkarpachev/pizza-shop-backend/internal/category"
	"github.com/nkarpachev/pizza-shop-backend/internal/city"
	"github.com/nkarpachev/pizza-shop-backend/internal/ingredient"
	"github.com/nkarpachev/pizza-shop-backend/internal/order"
	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
	"github.com/nkarpachev/pizza-shop-backend/internal/product"
	"github.com/nkarpachev/pizza-shop-backend/internal/sms"
	"github.com/nkarpachev/pizza-shop-backend/internal/store"
	"github.com/nkarpachev/pizza-shop-backend/internal/user"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	db := mustOpenDB(log)
	defer db.Close()
	ensureSchema(db, log)

	rdb := mustOpenRedis(log)
	defer rdb.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger(log))

	// auth plumbing: token issue/revoke and SMS login codes
	tokens := auth.NewTokens([]byte(jwtSecret), auth.NewRedisRevocationStore(rdb))
	smsService := sms.NewService(sms.NewRedisCodeStore(rdb), sms.NewLogSender(log), os.Getenv("SMS_DEV_CODE"))

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, smsService, tokens)

	catalog := pricing.NewPostgresCatalog(db)

	cityHandler := city.NewHandler(city.NewService(city.NewPostgresRepository(db)))
	storeService := store.NewService(store.NewPostgresRepository(db))
	storeHandler := store.NewHandler(storeService)
	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))
	ingredientHandler := ingredient.NewHandler(ingredient.NewService(ingredient.NewPostgresRepository(db)))
	productHandler := product.NewHandler(product.NewService(product.NewPostgresRepository(db)))

	cartService := cart.NewService(cart.NewPostgresRepository(db), catalog)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(order.NewPostgresRepository(db), catalog, storeService)
	orderHandler := order.NewHandler(orderService, cartService, log)

	// public surface: login flow, catalog reads, anonymous price preview
	userHandler.RegisterPublicRoutes(app)
	cityHandler.RegisterPublicRoutes(app)
	storeHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	ingredientHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{SigningKey: []byte(jwtSecret)}))
	app.Use(auth.RevocationMiddleware(tokens, log))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	staffGuard := user.RequireStaff(userService)
	orderHandler.RegisterStaffRoutes(app, staffGuard)

	adminGuard := user.RequireRole(userService, user.RoleAdmin)
	cityHandler.RegisterAdminRoutes(app, adminGuard)
	storeHandler.RegisterAdminRoutes(app, adminGuard)
	categoryHandler.RegisterAdminRoutes(app, adminGuard)
	ingredientHandler.RegisterAdminRoutes(app, adminGuard)
	productHandler.RegisterAdminRoutes(app, adminGuard)

	addr := os.Getenv("APP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Msg("starting server")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	}
}

func mustOpenDB(log zerolog.Logger) *sql.DB {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	return db
}

func mustOpenRedis(log zerolog.Logger) *redis.Client {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	return redis.NewClient(opts)
}

func ensureSchema(db *sql.DB, log zerolog.Logger) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			phone_number TEXT NOT NULL UNIQUE,
			email TEXT,
			name TEXT,
			date_of_birth TEXT,
			role INT NOT NULL DEFAULT 0,
			image_url TEXT,
			scores INT NOT NULL DEFAULT 0,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS cities (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stores (
			id UUID PRIMARY KEY,
			address TEXT NOT NULL,
			start_working_hours TEXT,
			end_working_hours TEXT,
			start_delivery_time TEXT,
			end_delivery_time TEXT,
			phone_number TEXT,
			min_order_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			city_id UUID REFERENCES cities(id),
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			store_id UUID REFERENCES stores(id),
			type INT NOT NULL DEFAULT 0,
			position INT NOT NULL DEFAULT 0,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			category_id UUID REFERENCES categories(id),
			position INT NOT NULL DEFAULT 0,
			type INT NOT NULL DEFAULT 0,
			dough INT,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS product_variants (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id),
			size TEXT,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			weight INT,
			calories INT,
			proteins INT,
			fats INT,
			carbohydrates INT,
			image TEXT,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			image TEXT,
			price NUMERIC(10,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			item_type TEXT NOT NULL,
			product_variant_id UUID NOT NULL REFERENCES product_variants(id),
			quantity INT NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			dough INT,
			signature_hash TEXT NOT NULL,
			added_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		// identical configurations collide here instead of duplicating lines
		`CREATE UNIQUE INDEX IF NOT EXISTS cart_items_user_variant_signature_idx
			ON cart_items (user_id, product_variant_id, signature_hash)`,
		`CREATE TABLE IF NOT EXISTS cart_item_ingredients (
			cart_item_id UUID NOT NULL REFERENCES cart_items(id) ON DELETE CASCADE,
			ingredient_id UUID NOT NULL REFERENCES ingredients(id),
			quantity INT NOT NULL DEFAULT 1,
			is_removed BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			total_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			is_pickup BOOLEAN NOT NULL DEFAULT FALSE,
			store_id UUID REFERENCES stores(id),
			payment_method INT NOT NULL,
			status INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_addresses (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			street TEXT NOT NULL,
			house TEXT NOT NULL,
			apartment TEXT,
			comment TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			product_variant_id UUID NOT NULL,
			quantity INT NOT NULL,
			price_per_item NUMERIC(10,2) NOT NULL,
			product_name TEXT NOT NULL,
			variant_size TEXT,
			item_type TEXT NOT NULL,
			dough INT
		)`,
		`CREATE TABLE IF NOT EXISTS order_item_ingredients (
			id UUID PRIMARY KEY,
			order_item_id UUID NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
			ingredient_id UUID NOT NULL REFERENCES ingredients(id),
			quantity INT NOT NULL DEFAULT 1,
			is_removed BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal().Err(err).Msg("schema bootstrap failed")
		}
	}
}
