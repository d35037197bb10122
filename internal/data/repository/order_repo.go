package repository

import (
	"context"
	"fmt"
	"time"

	"medroute/internal/data/entity"
	"medroute/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByTrackingCode(ctx context.Context, trackingCode string) (*entity.Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
	// FindByPharmacy returns orders containing at least one item sold by
	// the pharmacy, newest first.
	FindByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*entity.Order, error)
	// UpdateStatus persists status, delivery partner and delivery stamps.
	UpdateStatus(ctx context.Context, order *entity.Order) error
	CountAll(ctx context.Context) (int64, error)
	SumRevenueSince(ctx context.Context, since time.Time) (float64, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log,
	}
}

const orderColumns = `id, user_id, total, payment_method, payment_status, status,
       tracking_code, delivery_address, delivery_city, delivery_pincode,
       delivery_phone, partner_name, partner_phone, partner_vehicle,
       estimated_delivery, actual_delivery, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var partnerName, partnerPhone, partnerVehicle *string
	var addr, city, pincode, phone *string

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Total,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.Status,
		&o.TrackingCode,
		&addr,
		&city,
		&pincode,
		&phone,
		&partnerName,
		&partnerPhone,
		&partnerVehicle,
		&o.EstimatedDelivery,
		&o.ActualDelivery,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if addr != nil {
		o.DeliveryAddress = entity.DeliveryAddress{Address: *addr}
		if city != nil {
			o.DeliveryAddress.City = *city
		}
		if pincode != nil {
			o.DeliveryAddress.Pincode = *pincode
		}
		if phone != nil {
			o.DeliveryAddress.Phone = *phone
		}
	}

	if partnerName != nil {
		o.Partner = &entity.DeliveryPartner{Name: *partnerName}
		if partnerPhone != nil {
			o.Partner.Phone = *partnerPhone
		}
		if partnerVehicle != nil {
			o.Partner.VehicleNumber = *partnerVehicle
		}
	}

	return &o, nil
}

func (or *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		or.log.Error("Failed to begin order transaction", zap.Error(err))
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var partnerName, partnerPhone, partnerVehicle *string
	if order.Partner != nil {
		partnerName = &order.Partner.Name
		partnerPhone = &order.Partner.Phone
		partnerVehicle = &order.Partner.VehicleNumber
	}

	orderQuery := `
		INSERT INTO orders (id, user_id, total, payment_method, payment_status,
		                    status, tracking_code, delivery_address, delivery_city,
		                    delivery_pincode, delivery_phone, partner_name,
		                    partner_phone, partner_vehicle, estimated_delivery,
		                    actual_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = tx.Exec(ctx, orderQuery,
		order.ID,
		order.UserID,
		order.Total,
		order.PaymentMethod,
		order.PaymentStatus,
		order.Status,
		order.TrackingCode,
		order.DeliveryAddress.Address,
		order.DeliveryAddress.City,
		order.DeliveryAddress.Pincode,
		order.DeliveryAddress.Phone,
		partnerName,
		partnerPhone,
		partnerVehicle,
		order.EstimatedDelivery,
		order.ActualDelivery,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		or.log.Error("Failed to insert order",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
		return fmt.Errorf("insert order %s: %w", order.ID.String(), err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, medicine_id, pharmacy_id,
		                         medicine_name, pharmacy_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			order.ID,
			item.MedicineID,
			item.PharmacyID,
			item.MedicineName,
			item.PharmacyName,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			or.log.Error("Failed to insert order item",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
			)
			return fmt.Errorf("insert order item for order %s: %w", order.ID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		or.log.Error("Failed to commit order transaction",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
		return fmt.Errorf("commit order %s: %w", order.ID.String(), err)
	}

	return nil
}

func (or *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(or.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		or.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order by ID %s: %w", id.String(), err)
	}

	if err := or.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (or *orderRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tracking_code = $1`

	order, err := scanOrder(or.db.QueryRow(ctx, query, trackingCode))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		or.log.Error("Failed to find order by tracking code",
			zap.Error(err),
			zap.String("tracking_code", trackingCode),
		)
		return nil, fmt.Errorf("find order by tracking code %s: %w", trackingCode, err)
	}

	if err := or.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (or *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return or.queryOrders(ctx, query, userID)
}

func (or *orderRepository) FindByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id IN (SELECT DISTINCT order_id FROM order_items WHERE pharmacy_id = $1)
		ORDER BY created_at DESC
	`

	return or.queryOrders(ctx, query, pharmacyID)
}

func (or *orderRepository) UpdateStatus(ctx context.Context, order *entity.Order) error {
	var partnerName, partnerPhone, partnerVehicle *string
	if order.Partner != nil {
		partnerName = &order.Partner.Name
		partnerPhone = &order.Partner.Phone
		partnerVehicle = &order.Partner.VehicleNumber
	}

	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, partner_name = $4,
		    partner_phone = $5, partner_vehicle = $6, actual_delivery = $7,
		    updated_at = $8
		WHERE id = $1
	`

	result, err := or.db.Exec(ctx, query,
		order.ID,
		order.Status,
		order.PaymentStatus,
		partnerName,
		partnerPhone,
		partnerVehicle,
		order.ActualDelivery,
		order.UpdatedAt,
	)

	if err != nil {
		or.log.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
		return fmt.Errorf("update order %s: %w", order.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", order.ID.String())
	}

	return nil
}

func (or *orderRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM orders`

	var count int64
	err := or.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		or.log.Error("Database error counting orders", zap.Error(err))
		return 0, fmt.Errorf("count all orders: %w", err)
	}

	return count, nil
}

func (or *orderRepository) SumRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= $1 AND status <> 'cancelled'
	`

	var total float64
	err := or.db.QueryRow(ctx, query, since).Scan(&total)
	if err != nil {
		or.log.Error("Database error summing revenue", zap.Error(err))
		return 0, fmt.Errorf("sum revenue since %s: %w", since.Format(time.RFC3339), err)
	}

	return total, nil
}

func (or *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		or.log.Error("Failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			or.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		or.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for _, order := range orders {
		if err := or.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (or *orderRepository) loadItems(ctx context.Context, order *entity.Order) error {
	query := `
		SELECT id, order_id, medicine_id, pharmacy_id, medicine_name,
		       pharmacy_name, quantity, price
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := or.db.Query(ctx, query, order.ID)
	if err != nil {
		or.log.Error("Failed to load order items",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
		return fmt.Errorf("load items for order %s: %w", order.ID.String(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MedicineID,
			&item.PharmacyID,
			&item.MedicineName,
			&item.PharmacyName,
			&item.Quantity,
			&item.Price,
		)
		if err != nil {
			or.log.Error("Failed to scan order item row", zap.Error(err))
			return fmt.Errorf("scan order item row: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		or.log.Error("Rows iteration error", zap.Error(err))
		return fmt.Errorf("iterate order item rows: %w", err)
	}

	return nil
}
