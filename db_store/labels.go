package db_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migrate_mysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v4"

	"github.com/kartwerk/riverlabel/placement"
)

const insertBatchSize = 500

type LabelsDBStore struct {
	logger *logrus.Logger
	db     *sqlx.DB
}

// LabelPlacement is one stored placement. A batch groups the placements
// written by a single import run or API request.
type LabelPlacement struct {
	Id              int64       `db:"id" json:"id"`
	BatchId         string      `db:"batch_id" json:"batch_id"`
	Name            string      `db:"name" json:"name"`
	PolygonIndex    int         `db:"polygon_index" json:"polygon_index"`
	X               float64     `db:"x" json:"x"`
	Y               float64     `db:"y" json:"y"`
	Rotation        float64     `db:"rotation" json:"rotation_degrees"`
	FitsInside      bool        `db:"fits_inside" json:"fits_inside"`
	AvailableWidth  float64     `db:"available_width" json:"available_width"`
	AvailableHeight float64     `db:"available_height" json:"available_height"`
	Distance        float64     `db:"distance" json:"distance"`
	Label           null.String `db:"label" json:"label"`
	FontSize        null.Float  `db:"font_size" json:"font_size"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
}

func NewLabelPlacement(batchId, name string, p placement.Placement, metrics placement.TextMetrics) *LabelPlacement {
	return &LabelPlacement{
		BatchId:         batchId,
		Name:            name,
		PolygonIndex:    p.PolygonIndex,
		X:               p.X,
		Y:               p.Y,
		Rotation:        p.Rotation,
		FitsInside:      p.FitsInside,
		AvailableWidth:  p.AvailableWidth,
		AvailableHeight: p.AvailableHeight,
		Distance:        p.Distance,
		Label:           null.NewString(metrics.Text, metrics.Text != ""),
		FontSize:        null.NewFloat(metrics.FontSize, metrics.FontSize > 0),
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func (lp *LabelPlacement) Placement() placement.Placement {
	return placement.Placement{
		X:               lp.X,
		Y:               lp.Y,
		Rotation:        lp.Rotation,
		FitsInside:      lp.FitsInside,
		AvailableWidth:  lp.AvailableWidth,
		AvailableHeight: lp.AvailableHeight,
		PolygonIndex:    lp.PolygonIndex,
		Distance:        lp.Distance,
	}
}

const (
	labelColumns       = "batch_id,name,polygon_index,x,y,rotation,fits_inside,available_width,available_height,distance,label,font_size,created_at"
	labelSelectColumns = "id," + labelColumns
)

// InsertPlacements writes the placements in batches.
func (st *LabelsDBStore) InsertPlacements(ctx context.Context, placements []*LabelPlacement) error {
	const query = "INSERT INTO label_placements (" + labelColumns + ") VALUES (:batch_id,:name,:polygon_index,:x,:y,:rotation,:fits_inside,:available_width,:available_height,:distance,:label,:font_size,:created_at)"

	for len(placements) > 0 {
		n := len(placements)
		if n > insertBatchSize {
			n = insertBatchSize
		}

		if _, err := st.db.NamedExecContext(ctx, query, placements[:n]); err != nil {
			return fmt.Errorf("failed to insert label placements: %w", err)
		}

		placements = placements[n:]
	}

	return nil
}

func (st *LabelsDBStore) selectPlacements(ctx context.Context, where string, args ...any) ([]*LabelPlacement, error) {
	query := "SELECT " + labelSelectColumns + " FROM label_placements WHERE " + where + " ORDER BY id"

	placements := make([]*LabelPlacement, 0, 16)
	if err := st.db.SelectContext(ctx, &placements, query, args...); err != nil {
		return nil, err
	}
	return placements, nil
}

func (st *LabelsDBStore) GetPlacementsByBatch(ctx context.Context, batchId string) ([]*LabelPlacement, error) {
	return st.selectPlacements(ctx, "batch_id=?", batchId)
}

func (st *LabelsDBStore) GetPlacementsByName(ctx context.Context, name string) ([]*LabelPlacement, error) {
	return st.selectPlacements(ctx, "name=?", name)
}

// DeleteBatch removes all placements of a batch and returns how many went.
func (st *LabelsDBStore) DeleteBatch(ctx context.Context, batchId string) (int64, error) {
	res, err := st.db.ExecContext(ctx, "DELETE FROM label_placements WHERE batch_id=?", batchId)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (st *LabelsDBStore) Close() error {
	return st.db.Close()
}

func (st *LabelsDBStore) migrate(config DBConfig) error {
	migratePath := config.MigrationsPath

	if migratePath == "" {
		st.logger.Infof("skipping labels_db migrations: no path given")
		return nil
	}

	st.logger.Infof("running labels_db migrations")
	migrateConfig := &migrate_mysql.Config{
		MigrationsTable: "labels_schema_migrations",
		DatabaseName:    config.Db,
	}

	dbDriver, err := migrate_mysql.WithInstance(st.db.DB, migrateConfig)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(migratePath, "file://") {
		migratePath = "file://" + migratePath
	}

	m, err := migrate.NewWithDatabaseInstance(migratePath, config.Db, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to run labels DB migration: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func NewLabelsDBStore(config DBConfig, logger *logrus.Logger) (*LabelsDBStore, error) {
	db, err := sqlx.Connect("mysql", config.AsDSN())
	if err != nil {
		return nil, err
	}

	if config.MaxPool > 0 {
		db.SetMaxOpenConns(config.MaxPool)
	}

	st := &LabelsDBStore{
		logger: logger,
		db:     db,
	}

	if err := st.migrate(config); err != nil {
		db.Close()
		return nil, err
	}

	return st, nil
}
