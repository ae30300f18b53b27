package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "cartflow/docs"
	"cartflow/pkg/cart"
	cartmem "cartflow/pkg/cart/memory"
	pg "cartflow/pkg/cart/postgres"
	cartredis "cartflow/pkg/cart/redis"
	"cartflow/pkg/config"
	"cartflow/pkg/inventory"
	"cartflow/pkg/inventory/httpclient"
	"cartflow/pkg/logger"
	"cartflow/pkg/notify"
	"cartflow/pkg/otel"
)

var (
	redisClient *redis.Client
	stores      *storeRegistry
	log         *logger.Logger
	tracer      trace.Tracer
)

type ctxKey string

const userKey ctxKey = "user"

// @title CartFlow API
// @version 1.0
// @description API for managing the shopping cart
// @host localhost:8443
// @BasePath /
func main() {
	log = logger.New(os.Stdout, logger.LevelInfo, "cartflow", otel.GetTraceID)

	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "cartflow", Host: cfg.OtelHost, Probability: 1.0})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		return
	}
	defer shutdown(context.Background())
	tracer = tp.Tracer("cartflow")

	redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	var storage cart.Storage
	switch cfg.CartStorage {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error(context.Background(), "db connect", "error", err)
			os.Exit(1)
		}
		if _, err := db.Exec("CREATE TABLE IF NOT EXISTS carts (owner TEXT PRIMARY KEY, items JSONB NOT NULL)"); err != nil {
			log.Error(context.Background(), "create table", "error", err)
			os.Exit(1)
		}
		storage = pg.New(db)
	case config.StorageRedis:
		storage = cartredis.New(redisClient)
	case config.StorageMemory:
		storage = cartmem.New()
	}

	inv := httpclient.New(cfg.InventoryURL, &http.Client{Timeout: 10 * time.Second})
	stores = newStoreRegistry(storage, inv, notify.NewLog(log), log)

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.HandleFunc("/login", loginHandler).Methods(http.MethodPost)

	api := r.PathPrefix("/cart").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("", getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", addProductHandler).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", updateAmountHandler).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", removeProductHandler).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	log.Info(context.Background(), "listening", "addr", cfg.Addr)
	if err := http.ListenAndServeTLS(cfg.Addr, cfg.CertFile, cfg.KeyFile, r); err != nil {
		log.Error(context.Background(), "server closed", "error", err)
	}
}

// storeRegistry hands out one cart store per owner so every session works
// against a single serialized mutation queue.
type storeRegistry struct {
	storage cart.Storage
	inv     inventory.Client
	sink    cart.Notifier
	log     *logger.Logger

	mu     sync.Mutex
	stores map[string]*cart.Store
}

func newStoreRegistry(storage cart.Storage, inv inventory.Client, sink cart.Notifier, log *logger.Logger) *storeRegistry {
	return &storeRegistry{
		storage: storage,
		inv:     inv,
		sink:    sink,
		log:     log,
		stores:  make(map[string]*cart.Store),
	}
}

// get returns the owner's store, opening it from storage on first use.
func (sr *storeRegistry) get(ctx context.Context, owner string) *cart.Store {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	s, ok := sr.stores[owner]
	if !ok {
		s = cart.Open(ctx, owner, sr.storage, sr.inv, sr.sink, sr.log)
		sr.stores[owner] = s
	}
	return s
}

// loginHandler handles user login and session creation.
// @Summary Login
// @Description Authenticates user and sets session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /login [post]
func loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
		return
	}
	sid := uuid.NewString()
	if err := redisClient.Set(ctx, "session:"+sid, req.Username, time.Hour).Err(); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: sid, Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// authMiddleware ensures a valid session exists.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || user == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getCartHandler returns the current cart snapshot.
// @Summary Get cart
// @Produce json
// @Success 200 {array} cart.Product
// @Security ApiKeyAuth
// @Router /cart [get]
func getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	s := stores.get(ctx, ctx.Value(userKey).(string))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Items())
}

// addProductHandler puts one more unit of the product in the cart.
// @Summary Add product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} operationResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [post]
func addProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addProductHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	s := stores.get(ctx, ctx.Value(userKey).(string))
	writeResult(w, s.AddProduct(ctx, id))
}

// updateAmountHandler sets the product's quantity in the cart.
// @Summary Update product amount
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param amount body updateAmountRequest true "Amount"
// @Success 200 {object} operationResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [put]
func updateAmountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateAmountHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var req updateAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s := stores.get(ctx, ctx.Value(userKey).(string))
	writeResult(w, s.UpdateProductAmount(ctx, id, req.Amount))
}

// removeProductHandler deletes the product from the cart.
// @Summary Remove product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} operationResponse
// @Security ApiKeyAuth
// @Router /cart/items/{id} [delete]
func removeProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeProductHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	s := stores.get(ctx, ctx.Value(userKey).(string))
	writeResult(w, s.RemoveProduct(ctx, id))
}

// writeResult renders an operation outcome. Rejections are normal
// terminations, so they answer 200 with the outcome in the body; only an
// absorbed internal failure answers 500.
func writeResult(w http.ResponseWriter, res cart.Result) {
	status := http.StatusOK
	if res.Code == cart.Failed {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(operationResponse{
		Status:  string(res.Code),
		Message: res.Message(),
		Cart:    res.Cart,
	})
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// updateAmountRequest carries the desired quantity for a cart line.
type updateAmountRequest struct {
	Amount int `json:"amount"`
}

// operationResponse reports a cart operation outcome to the storefront.
type operationResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Cart    cart.Cart `json:"cart"`
}
