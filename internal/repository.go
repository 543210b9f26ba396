package internal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drycleanhub/ordermart/internal/model"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	orderFields = "id, receipt_number, client_id, branch_id, operator_id, status, total_amount, paid_amount, " +
		"remaining_amount, discount_type, discount_amount, expedite_type, expedite_fee, payment_method, " +
		"completion_date, notes, created_at, updated_at"
	itemFields = "id, order_id, service_id, quantity, unit_of_measure, base_price, modifiers, total_price, " +
		"characteristics, defects_and_risks, status"
)

type IRepository interface {
	Register(context.Context, string, string) (int, error)
	IsOperatorExist(context.Context, string) (bool, error)
	CheckCredentials(context.Context, string, string) (int, error)

	CreateOrder(context.Context, model.Order) error
	GetOrderByID(context.Context, string) (model.Order, error)
	GetOrderByReceipt(context.Context, string) (model.Order, error)
	GetOrders(context.Context, string) ([]model.Order, error)
	UpdateOrderStatus(context.Context, string, string) error
	CancelOrder(context.Context, string, string) error
	AddPayment(context.Context, string, decimal.Decimal, decimal.Decimal) error

	GetItemByID(context.Context, string) (model.Item, error)
	UpdateItemStatus(context.Context, string, string) error

	GetServices(context.Context) ([]model.Service, error)
	GetBasePrice(context.Context, string) (decimal.Decimal, error)
	GetModifiersByIDs(context.Context, []string) ([]model.Modifier, error)
}

type Repository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewRepository(connString string, logger *zap.SugaredLogger) (*Repository, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	if err = db.PingContext(context.Background()); err != nil {
		return nil, err
	}

	if err = runMigrations(db); err != nil {
		return nil, err
	}

	return &Repository{DB: db, Logger: logger}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func (r Repository) Register(ctx context.Context, login, password string) (int, error) {
	var id int
	row := r.DB.QueryRowContext(ctx, "INSERT INTO operators (login, password) VALUES ($1, $2) RETURNING id", login, password)

	err := row.Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r Repository) IsOperatorExist(ctx context.Context, login string) (bool, error) {
	exist := false

	row := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM operators WHERE login=$1)", login)
	err := row.Scan(&exist)
	if err != nil {
		return false, err
	}

	return exist, nil
}

func (r Repository) CheckCredentials(ctx context.Context, login string, password string) (int, error) {
	var id int
	row := r.DB.QueryRowContext(ctx, "SELECT id FROM operators WHERE login = $1 AND password = $2", login, password)

	err := row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}

	return id, nil
}

// CreateOrder writes the order and all its items in one transaction.
func (r Repository) CreateOrder(ctx context.Context, o model.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders ("+orderFields+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)",
		o.ID, o.ReceiptNumber, o.ClientID, o.BranchID, o.OperatorID, o.Status, o.TotalAmount, o.PaidAmount,
		o.RemainingAmount, o.DiscountType, o.DiscountAmount, o.ExpediteType, o.ExpediteFee, o.PaymentMethod,
		nullableTime(o.CompletionDate), o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	for _, it := range o.Items {
		mods, err := json.Marshal(it.Modifiers)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items ("+itemFields+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
			it.ID, it.OrderID, it.ServiceID, it.Quantity, it.UnitOfMeasure, it.BasePrice, string(mods),
			it.TotalPrice, it.Characteristics, it.DefectsAndRisks, it.Status)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r Repository) GetOrderByID(ctx context.Context, id string) (model.Order, error) {
	return r.getOrder(ctx, "SELECT "+orderFields+" FROM orders WHERE id = $1", id)
}

func (r Repository) GetOrderByReceipt(ctx context.Context, number string) (model.Order, error) {
	return r.getOrder(ctx, "SELECT "+orderFields+" FROM orders WHERE receipt_number = $1", number)
}

func (r Repository) getOrder(ctx context.Context, query, arg string) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx, query, arg)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNoRecords
	}
	if err != nil {
		return model.Order{}, err
	}

	o.Items, err = r.getOrderItems(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r Repository) getOrderItems(ctx context.Context, orderID string) ([]model.Item, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+itemFields+" FROM items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r Repository) GetOrders(ctx context.Context, branchID string) ([]model.Order, error) {
	query := "SELECT " + orderFields + " FROM orders ORDER BY created_at DESC"
	args := []interface{}{}
	if branchID != "" {
		query = "SELECT " + orderFields + " FROM orders WHERE branch_id = $1 ORDER BY created_at DESC"
		args = append(args, branchID)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r Repository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r Repository) CancelOrder(ctx context.Context, id, notes string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE orders SET status = $1, notes = $2, updated_at = $3 WHERE id = $4",
		model.OrderStatusCancelled, notes, time.Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddPayment updates paid and remaining in a single statement so the
// remaining = total - paid invariant cannot be observed half-written.
func (r Repository) AddPayment(ctx context.Context, id string, paid, remaining decimal.Decimal) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET paid_amount = $1, remaining_amount = $2, updated_at = $3 WHERE id = $4",
		paid, remaining, time.Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r Repository) GetItemByID(ctx context.Context, id string) (model.Item, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+itemFields+" FROM items WHERE id = $1", id)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, ErrNoRecords
	}
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (r Repository) UpdateItemStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE items SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r Repository) GetServices(ctx context.Context) ([]model.Service, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, category, base_price, unit_of_measure FROM services ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		err = rows.Scan(&s.ID, &s.Name, &s.Category, &s.BasePrice, &s.UnitOfMeasure)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r Repository) GetBasePrice(ctx context.Context, serviceID string) (decimal.Decimal, error) {
	var price decimal.Decimal
	row := r.DB.QueryRowContext(ctx, "SELECT base_price FROM services WHERE id = $1", serviceID)

	err := row.Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrServiceNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// GetModifiersByIDs returns modifiers in the order the ids were supplied;
// application order belongs to the caller, not the catalog.
func (r Repository) GetModifiersByIDs(ctx context.Context, ids []string) ([]model.Modifier, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, kind, value, category FROM modifiers WHERE id IN ("+strings.Join(placeholders, ", ")+")",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]model.Modifier, len(ids))
	for rows.Next() {
		var m model.Modifier
		err = rows.Scan(&m.ID, &m.Name, &m.Kind, &m.Value, &m.Category)
		if err != nil {
			return nil, err
		}
		byID[m.ID] = m
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	modifiers := make([]model.Modifier, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, ErrModifierNotFound
		}
		modifiers = append(modifiers, m)
	}
	return modifiers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (model.Order, error) {
	var o model.Order
	var completion sql.NullTime

	err := row.Scan(&o.ID, &o.ReceiptNumber, &o.ClientID, &o.BranchID, &o.OperatorID, &o.Status,
		&o.TotalAmount, &o.PaidAmount, &o.RemainingAmount, &o.DiscountType, &o.DiscountAmount,
		&o.ExpediteType, &o.ExpediteFee, &o.PaymentMethod, &completion, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, err
	}
	if completion.Valid {
		t := completion.Time
		o.CompletionDate = &t
	}
	return o, nil
}

func scanItem(row rowScanner) (model.Item, error) {
	var it model.Item
	var mods string

	err := row.Scan(&it.ID, &it.OrderID, &it.ServiceID, &it.Quantity, &it.UnitOfMeasure, &it.BasePrice,
		&mods, &it.TotalPrice, &it.Characteristics, &it.DefectsAndRisks, &it.Status)
	if err != nil {
		return model.Item{}, err
	}
	if err = json.Unmarshal([]byte(mods), &it.Modifiers); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRecords
	}
	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
