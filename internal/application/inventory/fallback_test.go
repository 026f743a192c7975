package inventory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/fallback"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/snapshot"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

var errSinConexion = errors.New("dial tcp 10.0.0.5:5432: connection refused")

// caidaStore hace de almacenamiento principal: responde desde un snapshot propio
// hasta que down se activa, y a partir de ahí falla como una base caída.
type caidaStore struct {
	*snapshot.Store
	down bool
}

func (c *caidaStore) fail() error {
	if c.down {
		return errSinConexion
	}
	return nil
}

func (c *caidaStore) CreateItem(ctx context.Context, it *entity.Item) error {
	if err := c.fail(); err != nil {
		return err
	}
	return c.Store.CreateItem(ctx, it)
}

func (c *caidaStore) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.Store.GetItem(ctx, id)
}

func (c *caidaStore) UpdateItem(ctx context.Context, id string, patch entity.ItemPatch) (*entity.Item, error) {
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.Store.UpdateItem(ctx, id, patch)
}

func (c *caidaStore) DeleteItem(ctx context.Context, id string) error {
	if err := c.fail(); err != nil {
		return err
	}
	return c.Store.DeleteItem(ctx, id)
}

func (c *caidaStore) ListItems(ctx context.Context) ([]*entity.Item, error) {
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.Store.ListItems(ctx)
}

func (c *caidaStore) CreateReport(ctx context.Context, r *entity.StockReport) error {
	if err := c.fail(); err != nil {
		return err
	}
	return c.Store.CreateReport(ctx, r)
}

func (c *caidaStore) GetReport(ctx context.Context, id string) (*entity.StockReport, error) {
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.Store.GetReport(ctx, id)
}

func (c *caidaStore) UpdateReportStatus(ctx context.Context, id string, status entity.ReportStatus, at time.Time) (*entity.StockReport, error) {
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.Store.UpdateReportStatus(ctx, id, status, at)
}

func (c *caidaStore) ListReports(ctx context.Context, filter repository.ReportFilter) ([]*entity.StockReport, error) {
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.Store.ListReports(ctx, filter)
}

func newFallbackFixture(t *testing.T) (*fixture, *caidaStore, *fallback.Store) {
	t.Helper()
	primarySnap, err := snapshot.New(filepath.Join(t.TempDir(), "principal.json"))
	require.NoError(t, err)
	local, err := snapshot.New(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)

	primary := &caidaStore{Store: primarySnap}
	store := fallback.New(primary, local, time.Second, logger.Nop(), nil)
	items := NewItemUseCase(store)
	return &fixture{
		store:   local,
		items:   items,
		reports: NewReportUseCase(store, store, items, logger.Nop(), nil),
		repl:    NewReplenishmentUseCase(store),
	}, primary, store
}

func TestReportes_SiguenFuncionandoTrasCaerElPrincipal(t *testing.T) {
	f, primary, store := newFallbackFixture(t)
	ctx := context.Background()

	leche := f.createItem(t, "Leche", 30, 10, 50)
	queso := f.createItem(t, "Queso", 30, 10, 50)
	pending, err := f.reports.Submit(ctx, userSession, dto.SubmitReportRequest{ItemID: queso.ID, ReportedStock: intPtr(0)})
	require.NoError(t, err)
	require.False(t, store.Degraded())

	primary.down = true

	// Un admin reporta en plena caída: se aplica sobre el snapshot.
	rep, err := f.reports.Submit(ctx, adminSession, dto.SubmitReportRequest{ItemID: leche.ID, ReportedStock: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReportStatusApplied), rep.Status)
	assert.Equal(t, 30, rep.PreviousStock)
	assert.True(t, store.Degraded())

	got, err := f.items.Get(ctx, leche.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStock)
	assert.True(t, got.NeedsReorder)

	// El reporte pendiente creado antes de la caída se puede aplicar.
	applied, err := f.reports.Apply(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReportStatusApplied), applied.Report.Status)
	assert.Equal(t, 0, applied.Item.CurrentStock)
	assert.True(t, applied.Item.NeedsReorder)
}
