package fallback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

var _ repository.Store = (*Store)(nil)

// Replica almacenamiento secundario. Además del contrato de repositorio admite
// escrituras idempotentes y la carga completa desde el principal.
type Replica interface {
	repository.Store
	PutItem(ctx context.Context, item *entity.Item) error
	PutReport(ctx context.Context, report *entity.StockReport) error
	PutOrder(ctx context.Context, order *entity.Order) error
	Replace(ctx context.Context, items []*entity.Item, reports []*entity.StockReport, orders []*entity.Order) error
}

// Store envuelve el almacenamiento principal y el snapshot local.
// Mientras el principal responde, cada escritura confirmada se replica en el snapshot.
// Ante el primer fallo de infraestructura del principal (incluido superar opTimeout),
// cambia al snapshot y repite la operación allí. El cambio es permanente durante la vida del proceso.
// Los errores de dominio (no encontrado, validación, duplicado) se devuelven tal cual.
type Store struct {
	primary   repository.Store
	secondary Replica
	opTimeout time.Duration
	log       *logger.Logger
	metrics   *metrics.Metrics

	mu       sync.RWMutex
	degraded bool
}

// New crea el envoltorio. Con primary nil el almacenamiento arranca degradado.
// opTimeout acota cada llamada al principal; cero la deja sin límite propio.
func New(primary repository.Store, secondary Replica, opTimeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Store {
	s := &Store{
		primary:   primary,
		secondary: secondary,
		opTimeout: opTimeout,
		log:       log.Component("fallback_store"),
		metrics:   m,
		degraded:  primary == nil,
	}
	m.SetDegraded(s.degraded)
	return s
}

// Degraded indica si las operaciones se están sirviendo desde el snapshot.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Warm copia al snapshot el contenido actual del principal. Si el principal no
// responde, el almacenamiento queda degradado y se devuelve la causa.
func (s *Store) Warm(ctx context.Context) error {
	if s.Degraded() {
		return nil
	}
	items, err := primaryCall(ctx, s, func(ctx context.Context, r repository.Store) ([]*entity.Item, error) {
		return r.ListItems(ctx)
	})
	if err != nil {
		return s.warmFailed(ctx, err)
	}
	reports, err := primaryCall(ctx, s, func(ctx context.Context, r repository.Store) ([]*entity.StockReport, error) {
		return r.ListReports(ctx, repository.ReportFilter{})
	})
	if err != nil {
		return s.warmFailed(ctx, err)
	}
	orders, err := primaryCall(ctx, s, func(ctx context.Context, r repository.Store) ([]*entity.Order, error) {
		return r.ListOrders(ctx)
	})
	if err != nil {
		return s.warmFailed(ctx, err)
	}
	if err := s.secondary.Replace(ctx, items, reports, orders); err != nil {
		return fmt.Errorf("%w: Warm: snapshot: %v", domain.ErrPersistence, err)
	}
	s.log.Info().Int("items", len(items)).Int("reports", len(reports)).Int("orders", len(orders)).
		Msg("snapshot sincronizado con el almacenamiento principal")
	return nil
}

func (s *Store) warmFailed(ctx context.Context, err error) error {
	if shouldFallback(ctx, err) {
		s.switchToSecondary("Warm", err)
	}
	return fmt.Errorf("%w: Warm: %v", domain.ErrPersistence, err)
}

func (s *Store) active() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.degraded {
		return s.secondary
	}
	return s.primary
}

func (s *Store) switchToSecondary(op string, cause error) {
	s.mu.Lock()
	already := s.degraded
	s.degraded = true
	s.mu.Unlock()
	if already {
		return
	}
	s.metrics.RecordFallback(op)
	s.log.Warn().Err(cause).Str("op", op).Msg("almacenamiento principal no disponible, usando snapshot local")
}

// mirror replica en el snapshot una escritura ya confirmada por el principal.
// Un fallo solo se registra: el principal sigue siendo la fuente de verdad.
// La cancelación del llamador no interrumpe la réplica de algo ya confirmado.
func (s *Store) mirror(ctx context.Context, op string, fn func(context.Context, Replica) error) {
	if err := fn(context.WithoutCancel(ctx), s.secondary); err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("no se pudo replicar la escritura en el snapshot")
	}
}

// shouldFallback decide si un error del principal justifica el cambio al snapshot.
// La cancelación del llamador no es un fallo del almacenamiento; agotar opTimeout sí lo es.
func shouldFallback(ctx context.Context, err error) bool {
	if err == nil || domain.IsDomainError(err) {
		return false
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// primaryCall ejecuta fn contra el principal bajo opTimeout.
func primaryCall[T any](ctx context.Context, s *Store, fn func(context.Context, repository.Store) (T, error)) (T, error) {
	if s.opTimeout <= 0 {
		return fn(ctx, s.primary)
	}
	pctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	out, err := fn(pctx, s.primary)
	if err == nil && pctx.Err() != nil && ctx.Err() == nil {
		err = pctx.Err()
	}
	return out, err
}

// do ejecuta fn en el almacenamiento activo. El booleano indica si respondió el principal.
func do[T any](ctx context.Context, s *Store, op string, fn func(context.Context, repository.Store) (T, error)) (T, bool, error) {
	var zero T
	if s.primary == nil || s.Degraded() {
		out, err := fn(ctx, s.secondary)
		if err != nil && !domain.IsDomainError(err) && ctx.Err() == nil {
			return zero, false, fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
		}
		return out, false, err
	}

	out, err := primaryCall(ctx, s, fn)
	if !shouldFallback(ctx, err) {
		if err != nil && !domain.IsDomainError(err) && ctx.Err() == nil {
			return zero, false, fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
		}
		return out, err == nil, err
	}

	s.switchToSecondary(op, err)
	out, err2 := fn(ctx, s.secondary)
	if err2 != nil && !domain.IsDomainError(err2) && ctx.Err() == nil {
		return zero, false, fmt.Errorf("%w: %s: principal: %v; snapshot: %v", domain.ErrPersistence, op, err, err2)
	}
	return out, false, err2
}

func read[T any](ctx context.Context, s *Store, op string, fn func(context.Context, repository.Store) (T, error)) (T, error) {
	out, _, err := do(ctx, s, op, fn)
	return out, err
}

// write ejecuta una escritura y, si la confirmó el principal, la replica con replicate.
func write[T any](ctx context.Context, s *Store, op string, fn func(context.Context, repository.Store) (T, error), replicate func(context.Context, Replica, T) error) (T, error) {
	out, fromPrimary, err := do(ctx, s, op, fn)
	if err == nil && fromPrimary {
		s.mirror(ctx, op, func(ctx context.Context, r Replica) error { return replicate(ctx, r, out) })
	}
	return out, err
}

// ─── Artículos ───

func (s *Store) CreateItem(ctx context.Context, item *entity.Item) error {
	_, err := write(ctx, s, "CreateItem", func(ctx context.Context, r repository.Store) (struct{}, error) {
		return struct{}{}, r.CreateItem(ctx, item)
	}, func(ctx context.Context, r Replica, _ struct{}) error { return r.PutItem(ctx, item) })
	return err
}

func (s *Store) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	return read(ctx, s, "GetItem", func(ctx context.Context, r repository.Store) (*entity.Item, error) {
		return r.GetItem(ctx, id)
	})
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch entity.ItemPatch) (*entity.Item, error) {
	return write(ctx, s, "UpdateItem", func(ctx context.Context, r repository.Store) (*entity.Item, error) {
		return r.UpdateItem(ctx, id, patch)
	}, func(ctx context.Context, r Replica, it *entity.Item) error { return r.PutItem(ctx, it) })
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	_, err := write(ctx, s, "DeleteItem", func(ctx context.Context, r repository.Store) (struct{}, error) {
		return struct{}{}, r.DeleteItem(ctx, id)
	}, func(ctx context.Context, r Replica, _ struct{}) error {
		if err := r.DeleteItem(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
	return err
}

func (s *Store) ListItems(ctx context.Context) ([]*entity.Item, error) {
	return read(ctx, s, "ListItems", func(ctx context.Context, r repository.Store) ([]*entity.Item, error) {
		return r.ListItems(ctx)
	})
}

// ─── Reportes ───

func (s *Store) CreateReport(ctx context.Context, report *entity.StockReport) error {
	_, err := write(ctx, s, "CreateReport", func(ctx context.Context, r repository.Store) (struct{}, error) {
		return struct{}{}, r.CreateReport(ctx, report)
	}, func(ctx context.Context, r Replica, _ struct{}) error { return r.PutReport(ctx, report) })
	return err
}

func (s *Store) GetReport(ctx context.Context, id string) (*entity.StockReport, error) {
	return read(ctx, s, "GetReport", func(ctx context.Context, r repository.Store) (*entity.StockReport, error) {
		return r.GetReport(ctx, id)
	})
}

func (s *Store) UpdateReportStatus(ctx context.Context, id string, status entity.ReportStatus, updatedAt time.Time) (*entity.StockReport, error) {
	return write(ctx, s, "UpdateReportStatus", func(ctx context.Context, r repository.Store) (*entity.StockReport, error) {
		return r.UpdateReportStatus(ctx, id, status, updatedAt)
	}, func(ctx context.Context, r Replica, rep *entity.StockReport) error { return r.PutReport(ctx, rep) })
}

func (s *Store) ListReports(ctx context.Context, filter repository.ReportFilter) ([]*entity.StockReport, error) {
	return read(ctx, s, "ListReports", func(ctx context.Context, r repository.Store) ([]*entity.StockReport, error) {
		return r.ListReports(ctx, filter)
	})
}

// ─── Órdenes ───

func (s *Store) CreateOrder(ctx context.Context, order *entity.Order) error {
	_, err := write(ctx, s, "CreateOrder", func(ctx context.Context, r repository.Store) (struct{}, error) {
		return struct{}{}, r.CreateOrder(ctx, order)
	}, func(ctx context.Context, r Replica, _ struct{}) error { return r.PutOrder(ctx, order) })
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	return read(ctx, s, "GetOrder", func(ctx context.Context, r repository.Store) (*entity.Order, error) {
		return r.GetOrder(ctx, id)
	})
}

// UpdateOrder replica la orden completa releyéndola del principal, porque el
// llamador puede pasar una orden sin sus líneas.
func (s *Store) UpdateOrder(ctx context.Context, order *entity.Order) error {
	_, err := write(ctx, s, "UpdateOrder", func(ctx context.Context, r repository.Store) (struct{}, error) {
		return struct{}{}, r.UpdateOrder(ctx, order)
	}, func(ctx context.Context, r Replica, _ struct{}) error {
		full, err := primaryCall(ctx, s, func(ctx context.Context, p repository.Store) (*entity.Order, error) {
			return p.GetOrder(ctx, order.ID)
		})
		if err != nil {
			return err
		}
		return r.PutOrder(ctx, full)
	})
	return err
}

func (s *Store) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	return read(ctx, s, "ListOrders", func(ctx context.Context, r repository.Store) ([]*entity.Order, error) {
		return r.ListOrders(ctx)
	})
}
