package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormSaleOrderRepository_FindByID(t *testing.T) {
	t.Run("finds order with lines", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSaleOrderRepository(gormDB)

		orderID := uuid.New()
		partnerID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "order_number", "partner_id", "state", "invoice_status", "amount_total"}).
			AddRow(orderID, "SO001", partnerID, "sale", "to invoice", "1500")

		mock.ExpectQuery(`SELECT \* FROM "sale_orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)

		lineRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "unit", "invoice_policy"}).
			AddRow(uuid.New(), orderID, uuid.New(), "Consulting", "10", "150", "hour", "order")

		mock.ExpectQuery(`SELECT \* FROM "sale_order_lines" WHERE "sale_order_lines"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(lineRows)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "SO001", order.OrderNumber)
		assert.True(t, order.IsInvoiceable())
		require.Len(t, order.Lines, 1)
		assert.Equal(t, trade.InvoicePolicyOrder, order.Lines[0].InvoicePolicy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSaleOrderRepository(gormDB)

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "sale_orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Error(t, err)
		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSaleOrderRepository_FindInvoiceableByPartner(t *testing.T) {
	t.Run("filters by state and invoice status", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSaleOrderRepository(gormDB)

		partnerID := uuid.New()
		orderID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "order_number", "partner_id", "state", "invoice_status", "amount_total"}).
			AddRow(orderID, "SO002", partnerID, "sale", "to invoice", "800")

		mock.ExpectQuery(`SELECT \* FROM "sale_orders" WHERE partner_id = \$1 AND state = \$2 AND invoice_status = \$3 ORDER BY created_at DESC`).
			WithArgs(partnerID, string(trade.OrderStateSale), string(trade.InvoiceStatusToInvoice)).
			WillReturnRows(orderRows)

		mock.ExpectQuery(`SELECT \* FROM "sale_order_lines" WHERE "sale_order_lines"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "unit", "invoice_policy"}))

		orders, err := repo.FindInvoiceableByPartner(context.Background(), partnerID)

		assert.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "SO002", orders[0].OrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing is invoiceable", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSaleOrderRepository(gormDB)

		partnerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "sale_orders" WHERE partner_id = \$1 AND state = \$2 AND invoice_status = \$3 ORDER BY created_at DESC`).
			WithArgs(partnerID, string(trade.OrderStateSale), string(trade.InvoiceStatusToInvoice)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "partner_id", "state", "invoice_status", "amount_total"}))

		orders, err := repo.FindInvoiceableByPartner(context.Background(), partnerID)

		assert.NoError(t, err)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
