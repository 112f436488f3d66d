// internal/datastore/datastore.go
package datastore

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/config"
	"github.com/your-org/furniture-store/internal/domain/cart"
	"github.com/your-org/furniture-store/internal/domain/order"
	"github.com/your-org/furniture-store/internal/domain/product"
	"github.com/your-org/furniture-store/internal/domain/user"
	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/auth"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
)

// Collection file names inside the data directory
const (
	ProductsFile = "products.json"
	UsersFile    = "users.json"
	CartsFile    = "carts.json"
	OrdersFile   = "orders.json"
)

// DataStore is the single entry point to the catalog, accounts, carts and
// orders. Handlers share one instance.
type DataStore struct {
	products *product.Service
	users    *user.Service
	carts    *cart.Service
	orders   *order.Service
	logger   logrus.FieldLogger
}

// StockShortage describes a line the catalog cannot cover
type StockShortage struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

// Open loads every collection from cfg.Storage.DataDir
func Open(cfg *config.Config, logger logrus.FieldLogger, recorder *metrics.Recorder) (*DataStore, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	file := func(name string) storage.Persister {
		return storage.NewJSONFile(cfg.Storage.DataDir, name, cfg.Storage.RecoverCorrupt, logger)
	}

	var hasher user.PasswordHasher = user.PlaintextHasher{}
	if cfg.Security.HashPasswords {
		hasher = user.NewBcryptHasher(auth.NewPasswordManager(cfg.Security.BcryptCost))
	} else {
		logger.Warn("Password hashing is disabled, credentials are stored in plaintext")
	}

	return Build(file(ProductsFile), file(UsersFile), file(CartsFile), file(OrdersFile), hasher, logger, recorder)
}

// Build wires the stores over the given persisters
func Build(products, users, carts, orders storage.Persister, hasher user.PasswordHasher, logger logrus.FieldLogger, recorder *metrics.Recorder) (*DataStore, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	productService, err := product.NewService(products, logger, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	userService, err := user.NewService(users, hasher, logger, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	cartService, err := cart.NewService(carts, productService, logger, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to load carts: %w", err)
	}
	orderService, err := order.NewService(orders, productService, cartService, logger, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	return &DataStore{
		products: productService,
		users:    userService,
		carts:    cartService,
		orders:   orderService,
		logger:   logger,
	}, nil
}

// Products

func (d *DataStore) AllProducts() []product.Product {
	return d.products.List()
}

func (d *DataStore) SearchProducts(req *product.SearchRequest) []product.Product {
	return d.products.Search(req)
}

func (d *DataStore) Product(id string) (*product.Product, error) {
	return d.products.GetByID(id)
}

func (d *DataStore) Categories() []string {
	return d.products.ListCategories()
}

func (d *DataStore) CheckStock(productID string, qty int) bool {
	return d.products.CheckStock(productID, qty)
}

func (d *DataStore) DecrementStock(productID string, qty int) error {
	return d.products.DecrementStock(productID, qty)
}

// CheckItemsStock reports every line the catalog cannot currently cover.
// Quantities of repeated products are summed.
func (d *DataStore) CheckItemsStock(items []cart.CartItem) []StockShortage {
	requested := make(map[string]int, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := requested[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	shortages := make([]StockShortage, 0)
	for _, id := range ids {
		qty := requested[id]
		if d.products.CheckStock(id, qty) {
			continue
		}
		shortage := StockShortage{ProductID: id, Requested: qty}
		if p, err := d.products.GetByID(id); err == nil {
			shortage.ProductName = p.Name
			shortage.Available = p.Stock
		}
		shortages = append(shortages, shortage)
	}

	return shortages
}

// Users

func (d *DataStore) Login(username, password string) (*user.User, error) {
	return d.users.Authenticate(username, password)
}

func (d *DataStore) Register(req *user.RegisterRequest) (*user.User, error) {
	return d.users.Register(req)
}

func (d *DataStore) User(id string) (*user.User, error) {
	return d.users.GetByID(id)
}

func (d *DataStore) UserByUsername(username string) (*user.User, error) {
	return d.users.GetByUsername(username)
}

func (d *DataStore) UpdateUser(u *user.User) error {
	return d.users.Update(u)
}

func (d *DataStore) UpdateProfile(userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	return d.users.UpdateProfile(userID, req)
}

// Address book

func (d *DataStore) Addresses(userID string) ([]user.Address, error) {
	return d.users.Addresses(userID)
}

func (d *DataStore) AddAddress(userID string, addr user.Address) (*user.Address, error) {
	return d.users.AddAddress(userID, addr)
}

func (d *DataStore) UpdateAddress(userID, addressID string, addr user.Address) (*user.Address, error) {
	return d.users.UpdateAddress(userID, addressID, addr)
}

func (d *DataStore) RemoveAddress(userID, addressID string) error {
	return d.users.RemoveAddress(userID, addressID)
}

func (d *DataStore) SetDefaultAddress(userID, addressID string) error {
	return d.users.SetDefaultAddress(userID, addressID)
}

func (d *DataStore) DefaultAddress(userID string) (*user.Address, error) {
	return d.users.DefaultAddress(userID)
}

// Cart

func (d *DataStore) Cart(userID string) []cart.CartItem {
	return d.carts.Get(userID)
}

func (d *DataStore) CartSummary(userID string) *cart.Summary {
	return d.carts.Summary(userID)
}

func (d *DataStore) AddToCart(userID, productID string, qty int) (*cart.CartItem, error) {
	return d.carts.Add(userID, productID, qty)
}

func (d *DataStore) UpdateCartItem(userID, productID string, qty int) error {
	return d.carts.UpdateQuantity(userID, productID, qty)
}

func (d *DataStore) RemoveFromCart(userID, productID string) error {
	return d.carts.Remove(userID, productID)
}

func (d *DataStore) ClearCart(userID string) error {
	return d.carts.Clear(userID)
}

func (d *DataStore) CartTotal(userID string) float64 {
	return d.carts.Total(userID)
}

// Orders

func (d *DataStore) Checkout(userID string, req *order.CheckoutRequest) (*order.Order, error) {
	return d.orders.Checkout(userID, req)
}

func (d *DataStore) Orders(userID string) []order.Order {
	return d.orders.ListByUser(userID)
}

func (d *DataStore) Order(orderID string) (*order.Order, error) {
	return d.orders.GetByID(orderID)
}

func (d *DataStore) UserOrder(userID, orderID string) (*order.Order, error) {
	return d.orders.GetForUser(userID, orderID)
}
