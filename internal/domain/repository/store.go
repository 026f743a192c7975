package repository

// Store agrupa todos los puertos de persistencia. Lo implementan el almacenamiento
// PostgreSQL, el snapshot local y el envoltorio con respaldo que alterna entre ambos.
type Store interface {
	ItemRepository
	StockReportRepository
	OrderRepository
}
