package repositories

import (
	"context"
	"strconv"

	"solecare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SystemSettingRepository struct {
	DB *pgxpool.Pool
}

func NewSystemSettingRepository(db *pgxpool.Pool) *SystemSettingRepository {
	return &SystemSettingRepository{DB: db}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	query := `
		SELECT setting_key, setting_value, updated_at
		FROM system_settings
		WHERE setting_key = $1
	`
	setting := &models.SystemSetting{}
	err := r.DB.QueryRow(ctx, query, key).Scan(
		&setting.SettingKey,
		&setting.SettingValue,
		&setting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// GetFloat returns a numeric setting, falling back to def when the setting
// is missing or malformed.
func (r *SystemSettingRepository) GetFloat(ctx context.Context, key string, def float64) float64 {
	setting, err := r.Get(ctx, key)
	if err != nil {
		return def
	}
	v, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil {
		return def
	}
	return v
}

// GetInt returns an integer setting, falling back to def when the setting
// is missing or malformed.
func (r *SystemSettingRepository) GetInt(ctx context.Context, key string, def int) int {
	setting, err := r.Get(ctx, key)
	if err != nil {
		return def
	}
	v, err := strconv.Atoi(setting.SettingValue)
	if err != nil {
		return def
	}
	return v
}

func (r *SystemSettingRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO system_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = $2, updated_at = NOW()
	`
	_, err := r.DB.Exec(ctx, query, key, value)
	return err
}

func (r *SystemSettingRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	query := `
		SELECT setting_key, setting_value, updated_at
		FROM system_settings
		ORDER BY setting_key
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		setting := &models.SystemSetting{}
		if err := rows.Scan(&setting.SettingKey, &setting.SettingValue, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}
