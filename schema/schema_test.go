package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordkit/recordkit/schema"
)

type Customer struct {
	CustomerID int64
	Name       string
}

type Invoice struct {
	InvoiceID  int64
	CustomerID int64
	Amount     float64
	Memo       string
	IssuedAt   time.Time
}

func customerSchema() *schema.Schema {
	return &schema.Schema{
		Name: "Customer",
		New:  func() interface{} { return &Customer{} },
		Fields: []*schema.Field{
			{
				Name: "CustomerID", Kind: schema.PrimaryKey, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*Customer).CustomerID },
				Set: func(r, v interface{}) { r.(*Customer).CustomerID = v.(int64) },
			},
			{
				Name: "Name", Kind: schema.Plain, DataType: schema.String, Mandatory: true,
				Get: func(r interface{}) interface{} { return r.(*Customer).Name },
				Set: func(r, v interface{}) { r.(*Customer).Name = v.(string) },
			},
		},
	}
}

func invoiceSchema() *schema.Schema {
	return &schema.Schema{
		Name: "Invoice",
		New:  func() interface{} { return &Invoice{} },
		Fields: []*schema.Field{
			{
				Name: "InvoiceID", Kind: schema.PrimaryKey, DataType: schema.Int,
				Get: func(r interface{}) interface{} { return r.(*Invoice).InvoiceID },
				Set: func(r, v interface{}) { r.(*Invoice).InvoiceID = v.(int64) },
			},
			{
				Name: "CustomerID", Kind: schema.ForeignKey, DataType: schema.Int, Ref: "Customer", Mandatory: true,
				Get: func(r interface{}) interface{} { return r.(*Invoice).CustomerID },
				Set: func(r, v interface{}) { r.(*Invoice).CustomerID = v.(int64) },
			},
			{
				Name: "Amount", Kind: schema.Plain, DataType: schema.Float,
				Get: func(r interface{}) interface{} { return r.(*Invoice).Amount },
				Set: func(r, v interface{}) { r.(*Invoice).Amount = v.(float64) },
			},
			{
				Name: "Memo", Kind: schema.Plain, DataType: schema.String,
				Get: func(r interface{}) interface{} { return r.(*Invoice).Memo },
				Set: func(r, v interface{}) { r.(*Invoice).Memo = v.(string) },
			},
			{
				Name: "IssuedAt", Kind: schema.Plain, DataType: schema.Time,
				Get: func(r interface{}) interface{} { return r.(*Invoice).IssuedAt },
				Set: func(r, v interface{}) { r.(*Invoice).IssuedAt = v.(time.Time) },
			},
		},
	}
}

func resolvedRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(customerSchema()))
	require.NoError(t, reg.Register(invoiceSchema()))
	require.NoError(t, reg.Resolve())
	return reg
}

func TestRegisterRequiresExactlyOnePrimaryKey(t *testing.T) {
	reg := schema.NewRegistry()

	noPK := customerSchema()
	noPK.Fields[0].Kind = schema.Plain
	err := reg.Register(noPK)
	assert.ErrorIs(t, err, schema.ErrMissingPrimaryKey)

	twoPK := customerSchema()
	twoPK.Fields[1].Kind = schema.PrimaryKey
	err = reg.Register(twoPK)
	assert.ErrorIs(t, err, schema.ErrDuplicatePrimaryKey)
}

func TestResolveRejectsUnknownForeignTarget(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(invoiceSchema()))

	err := reg.Resolve()
	assert.ErrorIs(t, err, schema.ErrMissingForeignTarget)
}

func TestResolveLinksForeignKeys(t *testing.T) {
	reg := resolvedRegistry(t)

	inv, err := reg.Schema("Invoice")
	require.NoError(t, err)

	fk := inv.FieldsByName["CustomerID"]
	require.NotNil(t, fk.RefSchema)
	assert.Equal(t, "Customer", fk.RefSchema.Name)
	assert.Equal(t, "CustomerID", fk.RefField.Name)
	// the foreign key column defaults to the referenced primary key's
	// column name
	assert.Equal(t, "customer_id", fk.DBName)
}

func TestTableNaming(t *testing.T) {
	reg := resolvedRegistry(t)

	customer, _ := reg.Schema("Customer")
	invoice, _ := reg.Schema("Invoice")
	assert.Equal(t, "customers", customer.Table)
	assert.Equal(t, "invoices", invoice.Table)
}

func TestIsNew(t *testing.T) {
	reg := resolvedRegistry(t)
	inv, _ := reg.Schema("Invoice")

	records := []struct {
		rec   *Invoice
		isNew bool
	}{
		{&Invoice{}, true},
		{&Invoice{Amount: 12.5, Memo: "pending"}, true},
		{&Invoice{InvoiceID: 1}, false},
		{&Invoice{InvoiceID: -1}, false},
	}

	for _, c := range records {
		assert.Equal(t, c.isNew, inv.IsNew(c.rec), "record %+v", c.rec)
	}
}

func TestBindParameters(t *testing.T) {
	reg := resolvedRegistry(t)
	inv, _ := reg.Schema("Invoice")

	issued := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &Invoice{InvoiceID: 3, CustomerID: 7, Amount: 99.5, Memo: "net 30", IssuedAt: issued}

	params := inv.BindParameters(rec)
	require.Len(t, params, 5)
	assert.Equal(t, "invoice_id", params[0].Name)
	assert.Equal(t, int64(3), params[0].Value)
	assert.Equal(t, "customer_id", params[1].Name)
	assert.Equal(t, int64(7), params[1].Value)
	assert.Equal(t, "amount", params[2].Name)
	assert.Equal(t, 99.5, params[2].Value)
}

func TestScanRow(t *testing.T) {
	reg := resolvedRegistry(t)
	inv, _ := reg.Schema("Invoice")

	rec, err := inv.ScanRow(map[string]interface{}{
		"invoice_id":  int64(3),
		"customer_id": int64(7),
		"amount":      99.5,
		"memo":        []byte("net 30"),
		"issued_at":   "2026-03-01 10:30:00",
	})
	require.NoError(t, err)

	got := rec.(*Invoice)
	assert.Equal(t, int64(3), got.InvoiceID)
	assert.Equal(t, int64(7), got.CustomerID)
	assert.Equal(t, 99.5, got.Amount)
	assert.Equal(t, "net 30", got.Memo)
	assert.Equal(t, 2026, got.IssuedAt.Year())
	assert.Equal(t, time.Month(3), got.IssuedAt.Month())
}

func TestPersistedFieldsExcludePrimaryKey(t *testing.T) {
	reg := resolvedRegistry(t)
	inv, _ := reg.Schema("Invoice")

	fields := inv.PersistedFields()
	require.Len(t, fields, 4)
	for _, f := range fields {
		assert.NotEqual(t, schema.PrimaryKey, f.Kind)
	}
}
