package models

// GuildConfig holds per-guild settings. CoinCard is the opaque payment card
// reference used as the settlement source; nil means claims are disabled.
type GuildConfig struct {
	GuildID        int64   `db:"guild_id"`
	CoinCard       *string `db:"coin_card"`
	LogChannelID   *int64  `db:"log_channel_id"`
	PanelChannelID *int64  `db:"panel_channel_id"`
}

// RoleRate maps a guild role to an hourly coin rate. A missing row means
// rate zero.
type RoleRate struct {
	GuildID    int64  `db:"guild_id"`
	RoleID     int64  `db:"role_id"`
	HourlyRate Amount `db:"hourly_rate"`
}
