package models

import "time"

type SystemSetting struct {
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Setting keys used by the pricing engine
const (
	SettingRushFee          = "rush_fee"
	SettingStorageFeePerDay = "storage_fee_per_day"
	SettingStorageGraceDays = "storage_grace_days"
)
