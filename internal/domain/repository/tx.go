package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Items       ItemRepository
	Adjustments StockAdjustmentRepository
	Receipts    ReceiptRepository
	Invoices    InvoiceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
