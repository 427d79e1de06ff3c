package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// --- Statistics ---

func (s *Store) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountUsers counts accounts, splitting expert and basic users case-insensitively.
func (s *Store) CountUsers(ctx context.Context) (schema.UserCounts, error) {
	var c schema.UserCounts
	var err error
	table := s.table(usersTable)
	if c.Total, err = s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
		return c, fmt.Errorf("failed to count users: %w", err)
	}
	byType := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE LOWER(user_type) = ?", table)
	if c.Expert, err = s.count(ctx, byType, string(schema.ExpertUser)); err != nil {
		return c, fmt.Errorf("failed to count expert users: %w", err)
	}
	if c.Basic, err = s.count(ctx, byType, string(schema.BasicUser)); err != nil {
		return c, fmt.Errorf("failed to count basic users: %w", err)
	}
	return c, nil
}

// CountPlatform counts registered phones and sensing devices.
func (s *Store) CountPlatform(ctx context.Context) (schema.PlatformCounts, error) {
	var c schema.PlatformCounts
	var err error
	if c.Mobile, err = s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(mobilesTable))); err != nil {
		return c, fmt.Errorf("failed to count mobiles: %w", err)
	}
	if c.PhasmaDevices, err = s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(devicesTable))); err != nil {
		return c, fmt.Errorf("failed to count devices: %w", err)
	}
	return c, nil
}

// CountMeasurements groups measurements by use case and food type.
func (s *Store) CountMeasurements(ctx context.Context) (schema.MeasurementCounts, error) {
	out := schema.MeasurementCounts{UseCases: map[string]schema.UseCaseCount{}}
	query := fmt.Sprintf(
		"SELECT use_case, food_type, COUNT(*) FROM %s GROUP BY use_case, food_type ORDER BY use_case, food_type",
		s.table(measureTable))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return out, fmt.Errorf("failed to count measurements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var useCase, foodType string
		var n int64
		if err := rows.Scan(&useCase, &foodType, &n); err != nil {
			return out, fmt.Errorf("failed to scan measurement count: %w", err)
		}
		if foodType == "" {
			foodType = unspecifiedFoodType
		}
		uc, ok := out.UseCases[useCase]
		if !ok {
			uc = schema.UseCaseCount{UseCase: useCase, FoodTypes: map[string]int64{}}
		}
		uc.Total += n
		uc.FoodTypes[foodType] += n
		out.UseCases[useCase] = uc
		out.Total += n
	}
	return out, rows.Err()
}

// CountResults counts stored classification results.
func (s *Store) CountResults(ctx context.Context) (int64, error) {
	n, err := s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(resultsTable)))
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}

// LatestStatistic returns the snapshot row, which is the first one by id.
func (s *Store) LatestStatistic(ctx context.Context) (schema.PlatformStatistic, error) {
	query := fmt.Sprintf(
		"SELECT id, users, platform, mongo, postgres, date_created FROM %s ORDER BY id LIMIT 1",
		s.table(statisticsTable))

	var st schema.PlatformStatistic
	var users, platform, mongo, postgres string
	err := s.queryRow(ctx, query).Scan(&st.ID, &users, &platform, &mongo, &postgres, timeScanner{&st.DateCreated})
	if errors.Is(err, sql.ErrNoRows) {
		return st, fmt.Errorf("platform statistic: %w", schema.ErrNotFound)
	}
	if err != nil {
		return st, fmt.Errorf("failed to load platform statistic: %w", err)
	}

	for _, part := range []struct {
		raw  string
		dest any
	}{
		{users, &st.Users},
		{platform, &st.Platform},
		{mongo, &st.Mongo},
		{postgres, &st.Postgres},
	} {
		if err := json.Unmarshal([]byte(part.raw), part.dest); err != nil {
			return st, fmt.Errorf("corrupt platform statistic %d: %w", st.ID, err)
		}
	}
	return st, nil
}

// UpsertStatistic overwrites the existing snapshot or inserts the first one.
func (s *Store) UpsertStatistic(ctx context.Context, st schema.PlatformStatistic) (schema.PlatformStatistic, error) {
	if st.DateCreated.IsZero() {
		st.DateCreated = time.Now()
	}
	args, err := statisticColumns(st)
	if err != nil {
		return st, err
	}
	args = append(args, formatTime(st.DateCreated, s.backend))
	table := s.table(statisticsTable)

	var id int64
	err = s.queryRow(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY id LIMIT 1", table)).Scan(&id)
	switch {
	case err == nil:
		query := fmt.Sprintf(
			"UPDATE %s SET users = ?, platform = ?, mongo = ?, postgres = ?, date_created = ? WHERE id = ?", table)
		if _, err := s.exec(ctx, query, append(args, id)...); err != nil {
			return st, fmt.Errorf("failed to update platform statistic: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		query := fmt.Sprintf(
			"INSERT INTO %s (users, platform, mongo, postgres, date_created) VALUES (%s)", table, placeholders(5))
		if id, err = s.insertReturningID(ctx, query, args...); err != nil {
			return st, fmt.Errorf("failed to insert platform statistic: %w", err)
		}
	default:
		return st, fmt.Errorf("failed to look up platform statistic: %w", err)
	}
	st.ID = id
	return st, nil
}

func (s *Store) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if s.backend == schema.PostgreSQLBackend {
		var id int64
		err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func statisticColumns(st schema.PlatformStatistic) ([]any, error) {
	parts := []any{st.Users, st.Platform, st.Mongo, st.Postgres}
	out := make([]any, len(parts))
	for i, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode platform statistic: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}

// GetStatus reports row counts and the latest activity of the store.
func (s *Store) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		TableSizes: make(map[string]int64),
	}
	if err := s.db.PingContext(ctx); err != nil {
		return status, nil
	}
	status.Connected = true

	for _, name := range []string{usersTable, devicesTable, mobilesTable, measureTable, resultsTable, statisticsTable} {
		if err := validateTableName(name); err != nil {
			return status, err
		}
		n, err := s.count(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(name)))
		if err != nil {
			return status, fmt.Errorf("failed to count table %s: %w", name, err)
		}
		status.TableSizes[name] = n
	}

	if err := s.queryRow(ctx, fmt.Sprintf("SELECT MAX(date_created) FROM %s", s.table(measureTable))).
		Scan(timeScanner{&status.LastMeasurement}); err != nil {
		return status, fmt.Errorf("failed to get last measurement time: %w", err)
	}
	if err := s.queryRow(ctx, fmt.Sprintf("SELECT MAX(date_created) FROM %s", s.table(statisticsTable))).
		Scan(timeScanner{&status.LastStatistic}); err != nil {
		return status, fmt.Errorf("failed to get last statistic time: %w", err)
	}
	return status, nil
}
