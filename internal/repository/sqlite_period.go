package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
)

const (
	entryAction  = "action"
	entryWeekly  = "weekly"
	entrySession = "session"
	entryForm    = "form"
)

// SQLitePeriodConfigRepo implements PeriodConfigRepo. The four definition
// lists share the period_entries table, keyed by list and position.
type SQLitePeriodConfigRepo struct {
	db db.DBTX
}

func NewSQLitePeriodConfigRepo(conn db.DBTX) *SQLitePeriodConfigRepo {
	return &SQLitePeriodConfigRepo{db: conn}
}

// entryRow is the flattened storage form of any definition list entry.
type entryRow struct {
	periodID     string
	list         string
	position     int
	entryID      string
	label        string
	contentType  string
	optional     bool
	resourceID   string
	resourceType string
	strategy     string
	slotKey      string
	handlerTag   string
	form         string
	sessionType  string
	sessionKind  string
	certifies    bool
}

func (r *SQLitePeriodConfigRepo) Replace(ctx context.Context, cfg *domain.PeriodConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO period_configs (id, phase, number, section, day, title, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phase = excluded.phase, number = excluded.number, section = excluded.section,
			day = excluded.day, title = excluded.title, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		cfg.ID,
		string(cfg.Phase),
		cfg.Number,
		string(cfg.Section),
		cfg.Day,
		cfg.Title,
		formatTime(cfg.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting period config %s: %w", cfg.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM period_entries WHERE period_id = ?`, cfg.ID); err != nil {
		return fmt.Errorf("clearing entries of period %s: %w", cfg.ID, err)
	}
	for _, e := range flattenEntries(cfg) {
		if err := r.insertEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLitePeriodConfigRepo) insertEntry(ctx context.Context, e entryRow) error {
	query := `INSERT INTO period_entries (period_id, list, position, entry_id, label, content_type,
		optional, resource_id, resource_type, strategy, slot_key, handler_tag, form,
		session_type, session_kind, certifies)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.periodID, e.list, e.position, e.entryID, e.label, e.contentType,
		boolToInt(e.optional), e.resourceID, e.resourceType, e.strategy, e.slotKey, e.handlerTag, e.form,
		e.sessionType, e.sessionKind, boolToInt(e.certifies),
	)
	if err != nil {
		return fmt.Errorf("inserting %s entry %d of period %s: %w", e.list, e.position, e.periodID, err)
	}
	return nil
}

func (r *SQLitePeriodConfigRepo) GetByID(ctx context.Context, id string) (*domain.PeriodConfig, error) {
	query := `SELECT id, phase, number, section, day, title, updated_at FROM period_configs WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying period config: %w", err)
	}
	configs, err := r.scanConfigs(rows)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("period config %s: %w", id, ErrNotFound)
	}
	if err := r.attachEntries(ctx, configs, `WHERE period_id = ?`, id); err != nil {
		return nil, err
	}
	return &configs[0], nil
}

func (r *SQLitePeriodConfigRepo) List(ctx context.Context) ([]domain.PeriodConfig, error) {
	query := `SELECT id, phase, number, section, day, title, updated_at FROM period_configs
		ORDER BY CASE phase WHEN 'prestart' THEN 0 WHEN 'milestone' THEN 1 ELSE 2 END, number, day, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing period configs: %w", err)
	}
	configs, err := r.scanConfigs(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachEntries(ctx, configs, ""); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *SQLitePeriodConfigRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM period_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting period config: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("period config %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanConfigs reads and closes rows before any follow-up query, so a single
// connection pool never deadlocks.
func (r *SQLitePeriodConfigRepo) scanConfigs(rows *sql.Rows) ([]domain.PeriodConfig, error) {
	defer rows.Close()
	var configs []domain.PeriodConfig
	for rows.Next() {
		var c domain.PeriodConfig
		var phase, section, updatedAt string
		if err := rows.Scan(&c.ID, &phase, &c.Number, &section, &c.Day, &c.Title, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning period config row: %w", err)
		}
		c.Phase = domain.PhaseKind(phase)
		c.Section = domain.Section(section)
		t, err := parseTime(updatedAt, "period updated_at")
		if err != nil {
			return nil, err
		}
		c.UpdatedAt = t
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating period configs: %w", err)
	}
	return configs, nil
}

func (r *SQLitePeriodConfigRepo) attachEntries(ctx context.Context, configs []domain.PeriodConfig, where string, args ...any) error {
	if len(configs) == 0 {
		return nil
	}
	query := `SELECT period_id, list, position, entry_id, label, content_type, optional, resource_id,
		resource_type, strategy, slot_key, handler_tag, form, session_type, session_kind, certifies
		FROM period_entries ` + where + ` ORDER BY period_id, list, position`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing period entries: %w", err)
	}
	defer rows.Close()

	index := make(map[string]*domain.PeriodConfig, len(configs))
	for i := range configs {
		index[configs[i].ID] = &configs[i]
	}
	for rows.Next() {
		var e entryRow
		var optional, certifies int
		err := rows.Scan(&e.periodID, &e.list, &e.position, &e.entryID, &e.label, &e.contentType,
			&optional, &e.resourceID, &e.resourceType, &e.strategy, &e.slotKey, &e.handlerTag,
			&e.form, &e.sessionType, &e.sessionKind, &certifies)
		if err != nil {
			return fmt.Errorf("scanning period entry: %w", err)
		}
		e.optional, e.certifies = intToBool(optional), intToBool(certifies)
		cfg, ok := index[e.periodID]
		if !ok {
			continue
		}
		if err := appendEntry(cfg, e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating period entries: %w", err)
	}
	return nil
}

var errUnknownList = errors.New("unknown period entry list")

func appendEntry(cfg *domain.PeriodConfig, e entryRow) error {
	switch e.list {
	case entryAction:
		cfg.Actions = append(cfg.Actions, domain.ActionDefinition{
			ID:           e.entryID,
			Label:        e.label,
			ContentType:  e.contentType,
			Optional:     e.optional,
			ResourceID:   e.resourceID,
			ResourceType: e.resourceType,
			Strategy:     e.strategy,
			SlotKey:      e.slotKey,
			HandlerTag:   e.handlerTag,
			Form:         e.form,
			SessionType:  e.sessionType,
		})
	case entryWeekly:
		cfg.WeeklySlots = append(cfg.WeeklySlots, domain.WeeklySlot{
			ID:          e.entryID,
			Kind:        domain.SessionKind(e.sessionKind),
			Label:       e.label,
			SessionType: e.sessionType,
			ResourceID:  e.resourceID,
			Optional:    e.optional,
		})
	case entrySession:
		cfg.SessionSlots = append(cfg.SessionSlots, domain.SessionSlot{
			ID:          e.entryID,
			Kind:        domain.SessionKind(e.sessionKind),
			Label:       e.label,
			SessionType: e.sessionType,
			Certifies:   e.certifies,
			Optional:    e.optional,
		})
	case entryForm:
		cfg.FormSlots = append(cfg.FormSlots, domain.FormSlot{
			ID:       e.entryID,
			Label:    e.label,
			Form:     domain.FormKind(e.form),
			Optional: e.optional,
		})
	default:
		return fmt.Errorf("period %s: %w %q", cfg.ID, errUnknownList, e.list)
	}
	return nil
}

func flattenEntries(cfg *domain.PeriodConfig) []entryRow {
	var out []entryRow
	for i, a := range cfg.Actions {
		out = append(out, entryRow{
			periodID: cfg.ID, list: entryAction, position: i,
			entryID: a.ID, label: a.Label, contentType: a.ContentType, optional: a.Optional,
			resourceID: a.ResourceID, resourceType: a.ResourceType, strategy: a.Strategy,
			slotKey: a.SlotKey, handlerTag: a.HandlerTag, form: a.Form, sessionType: a.SessionType,
		})
	}
	for i, w := range cfg.WeeklySlots {
		out = append(out, entryRow{
			periodID: cfg.ID, list: entryWeekly, position: i,
			entryID: w.ID, label: w.Label, optional: w.Optional, resourceID: w.ResourceID,
			sessionType: w.SessionType, sessionKind: string(w.Kind),
		})
	}
	for i, s := range cfg.SessionSlots {
		out = append(out, entryRow{
			periodID: cfg.ID, list: entrySession, position: i,
			entryID: s.ID, label: s.Label, optional: s.Optional,
			sessionType: s.SessionType, sessionKind: string(s.Kind), certifies: s.Certifies,
		})
	}
	for i, f := range cfg.FormSlots {
		out = append(out, entryRow{
			periodID: cfg.ID, list: entryForm, position: i,
			entryID: f.ID, label: f.Label, optional: f.Optional, form: string(f.Form),
		})
	}
	return out
}
