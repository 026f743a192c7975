package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// state contenido del archivo de snapshot. Las colecciones usan los tags json de las entidades.
type state struct {
	Items   []*entity.Item        `json:"items"`
	Reports []*entity.StockReport `json:"reports"`
	Orders  []*entity.Order       `json:"orders"`
}

// Store almacenamiento local en un único archivo JSON. Cada mutación reescribe el
// archivo completo (archivo temporal + rename) antes de publicarse en memoria,
// de modo que un fallo de escritura deja tanto el archivo como la memoria intactos.
type Store struct {
	path string

	mu sync.RWMutex
	st state
}

// New abre el snapshot en path. Si el archivo no existe se parte de un snapshot vacío.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("snapshot: leer %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		return nil, fmt.Errorf("snapshot: archivo corrupto %s: %w", path, err)
	}
	return s, nil
}

// Path ruta del archivo de snapshot.
func (s *Store) Path() string { return s.path }

// mutate aplica fn sobre una copia del estado, persiste la copia y solo entonces la publica.
func (s *Store) mutate(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.st = next
	return nil
}

func (s *Store) persist(st state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: serializar: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: crear directorio %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: cerrar: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: reemplazar %s: %w", s.path, err)
	}
	return nil
}

// ---- Items ----

func (s *Store) CreateItem(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		if st.itemIndex(item.ID) >= 0 {
			return fmt.Errorf("%w: artículo %s", domain.ErrDuplicate, item.ID)
		}
		cp := *item
		st.Items = append(st.Items, &cp)
		return nil
	})
}

func (s *Store) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.st.itemIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	cp := *s.st.Items[i]
	return &cp, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch entity.ItemPatch) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out entity.Item
	err := s.mutate(func(st *state) error {
		i := st.itemIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		patch.ApplyTo(st.Items[i])
		out = *st.Items[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		i := st.itemIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		st.Items = append(st.Items[:i], st.Items[i+1:]...)
		return nil
	})
}

func (s *Store) ListItems(ctx context.Context) ([]*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Item, 0, len(s.st.Items))
	for _, it := range s.st.Items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Reportes ----

func (s *Store) CreateReport(ctx context.Context, report *entity.StockReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		if st.reportIndex(report.ID) >= 0 {
			return fmt.Errorf("%w: reporte %s", domain.ErrDuplicate, report.ID)
		}
		cp := *report
		st.Reports = append(st.Reports, &cp)
		return nil
	})
}

func (s *Store) GetReport(ctx context.Context, id string) (*entity.StockReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.st.reportIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
	}
	cp := *s.st.Reports[i]
	return &cp, nil
}

func (s *Store) UpdateReportStatus(ctx context.Context, id string, status entity.ReportStatus, updatedAt time.Time) (*entity.StockReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out entity.StockReport
	err := s.mutate(func(st *state) error {
		i := st.reportIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
		}
		st.Reports[i].Status = status
		st.Reports[i].UpdatedAt = updatedAt
		out = *st.Reports[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListReports(ctx context.Context, filter repository.ReportFilter) ([]*entity.StockReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*entity.StockReport, 0, len(s.st.Reports))
	for _, r := range s.st.Reports {
		if filter.Matches(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	s.mu.RUnlock()

	// Los reportes se guardan en orden de llegada; el más reciente va primero.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- Órdenes ----

func (s *Store) CreateOrder(ctx context.Context, order *entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		if st.orderIndex(order.ID) >= 0 {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, order.ID)
		}
		st.Orders = append(st.Orders, cloneOrder(order))
		return nil
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.st.orderIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return cloneOrder(s.st.Orders[i]), nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		i := st.orderIndex(order.ID)
		if i < 0 {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, order.ID)
		}
		cur := st.Orders[i]
		cur.Status = order.Status
		cur.ExternalOrderID = order.ExternalOrderID
		cur.LastMessage = order.LastMessage
		cur.UpdatedAt = order.UpdatedAt
		return nil
	})
}

func (s *Store) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*entity.Order, 0, len(s.st.Orders))
	for _, o := range s.st.Orders {
		out = append(out, cloneOrder(o))
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- Réplica ----

// PutItem inserta o reemplaza el artículo. Una versión más antigua que la guardada se ignora.
func (s *Store) PutItem(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		cp := *item
		i := st.itemIndex(item.ID)
		switch {
		case i < 0:
			st.Items = append(st.Items, &cp)
		case !item.UpdatedAt.Before(st.Items[i].UpdatedAt):
			st.Items[i] = &cp
		}
		return nil
	})
}

// PutReport inserta o reemplaza el reporte con la misma regla de antigüedad que PutItem.
func (s *Store) PutReport(ctx context.Context, report *entity.StockReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		cp := *report
		i := st.reportIndex(report.ID)
		switch {
		case i < 0:
			st.Reports = append(st.Reports, &cp)
		case !report.UpdatedAt.Before(st.Reports[i].UpdatedAt):
			st.Reports[i] = &cp
		}
		return nil
	})
}

// PutOrder inserta o reemplaza la orden con la misma regla de antigüedad que PutItem.
func (s *Store) PutOrder(ctx context.Context, order *entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		i := st.orderIndex(order.ID)
		switch {
		case i < 0:
			st.Orders = append(st.Orders, cloneOrder(order))
		case !order.UpdatedAt.Before(st.Orders[i].UpdatedAt):
			st.Orders[i] = cloneOrder(order)
		}
		return nil
	})
}

// Replace sustituye todo el contenido del snapshot en una sola escritura.
func (s *Store) Replace(ctx context.Context, items []*entity.Item, reports []*entity.StockReport, orders []*entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		next := state{Items: items, Reports: reports, Orders: orders}.clone()
		// ListReports y ListOrders devuelven el más reciente primero; se guarda en orden de llegada.
		sort.SliceStable(next.Reports, func(i, j int) bool { return next.Reports[i].CreatedAt.Before(next.Reports[j].CreatedAt) })
		sort.SliceStable(next.Orders, func(i, j int) bool { return next.Orders[i].CreatedAt.Before(next.Orders[j].CreatedAt) })
		*st = next
		return nil
	})
}

// ---- helpers ----

func (st state) clone() state {
	next := state{
		Items:   make([]*entity.Item, len(st.Items)),
		Reports: make([]*entity.StockReport, len(st.Reports)),
		Orders:  make([]*entity.Order, len(st.Orders)),
	}
	for i, it := range st.Items {
		cp := *it
		next.Items[i] = &cp
	}
	for i, r := range st.Reports {
		cp := *r
		next.Reports[i] = &cp
	}
	for i, o := range st.Orders {
		next.Orders[i] = cloneOrder(o)
	}
	return next
}

func (st state) itemIndex(id string) int {
	for i, it := range st.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (st state) reportIndex(id string) int {
	for i, r := range st.Reports {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (st state) orderIndex(id string) int {
	for i, o := range st.Orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}
