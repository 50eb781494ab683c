package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"timeclock/events"
	"timeclock/service"
)

// subscribeAuditLog mirrors committed ledger events into the guild's
// configured log channel. Events only reach here after a successful commit,
// so the audit trail never shows rolled back work.
func (b *Bot) subscribeAuditLog() {
	b.eventBus.Subscribe(events.EventTypeSessionOpened, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SessionOpenedEvent)
		if !ok {
			return
		}
		b.postAudit(ctx, e.GuildID, fmt.Sprintf("🟢 <@%d> clocked in %s",
			e.MemberID, FormatDiscordTimestamp(e.StartedAt, "f")))
	})

	b.eventBus.Subscribe(events.EventTypeSessionClosed, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SessionClosedEvent)
		if !ok {
			return
		}
		msg := fmt.Sprintf("🔴 <@%d> clocked out after **%s**, earning %s",
			e.MemberID, service.FormatDuration(e.DurationSeconds), FormatCoins(e.Coins))
		if e.Forced {
			msg += " (closed automatically)"
		}
		b.postAudit(ctx, e.GuildID, msg)
	})

	b.eventBus.Subscribe(events.EventTypeTimeAdjusted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.TimeAdjustedEvent)
		if !ok {
			return
		}
		delta := e.DeltaSeconds
		verb := "added to"
		if delta < 0 {
			delta = -delta
			verb = "removed from"
		}
		sign := "+"
		if e.CoinsRemoved {
			sign = "-"
		}
		b.postAudit(ctx, e.GuildID, fmt.Sprintf("✏️ **%s** %s <@%d> (%s%s)",
			service.FormatDuration(delta), verb, e.MemberID, sign, FormatCoins(e.Coins)))
	})

	b.eventBus.Subscribe(events.EventTypeAccountCleared, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.AccountClearedEvent)
		if !ok {
			return
		}
		b.postAudit(ctx, e.GuildID, fmt.Sprintf("🧹 <@%d>'s account cleared by %s, dropping %s pending",
			e.MemberID, e.ClearedByName, FormatCoins(e.ClearedCoins)))
	})

	b.eventBus.Subscribe(events.EventTypeSettlementApplied, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SettlementAppliedEvent)
		if !ok {
			return
		}
		b.postAudit(ctx, e.GuildID, fmt.Sprintf("💸 <@%d> claimed %s (transaction `%s`)",
			e.MemberID, FormatCoins(e.Amount), e.SettlementID))
	})
}

// postAudit sends a line to the guild's log channel, if one is configured
func (b *Bot) postAudit(ctx context.Context, guildID int64, message string) {
	cfg, err := b.guildConfigs.GetConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Error loading guild config for audit message: %v", err)
		return
	}
	if cfg.LogChannelID == nil {
		return
	}

	channelID := strconv.FormatInt(*cfg.LogChannelID, 10)
	if _, err := b.session.ChannelMessageSend(channelID, message); err != nil {
		log.Errorf("Error posting audit message to channel %s: %v", channelID, err)
	}
}
