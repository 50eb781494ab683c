package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"timeclock/models"
	"timeclock/service"
)

// commandOptions flattens interaction options into a name-keyed map
func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// targetMemberID resolves the user option, falling back to the caller
func (b *Bot) targetMemberID(s *discordgo.Session, i *discordgo.InteractionCreate, callerID int64) (int64, error) {
	opt, ok := commandOptions(i)["user"]
	if !ok {
		return callerID, nil
	}
	user := opt.UserValue(s)
	if user == nil {
		return 0, fmt.Errorf("missing user option")
	}
	return strconv.ParseInt(user.ID, 10, 64)
}

// parseDurationOption reads and parses the required duration option
func parseDurationOption(i *discordgo.InteractionCreate) (int64, error) {
	opt, ok := commandOptions(i)["duration"]
	if !ok {
		return 0, service.ErrInvalidTimeLiteral
	}
	return service.ParseTimeInput(opt.StringValue())
}

func (b *Bot) handleAddTime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireStaff(s, i, guildID) {
		return
	}

	targetID, err := b.targetMemberID(s, i, 0)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}
	seconds, err := parseDurationOption(i)
	if err != nil {
		b.respondWithError(s, i, "Invalid duration. Use forms like 1d2h30m, 0:02:30:00 or plain seconds.")
		return
	}

	adj, err := b.ledgerService.AddTime(ctx, targetID, guildID, seconds)
	if err != nil {
		log.Errorf("Error adding time: %v", err)
		b.respondWithError(s, i, "Failed to add time. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Added **%s** to <@%d> (+%s)",
		service.FormatDuration(adj.Seconds), targetID, FormatCoins(adj.Coins)))
}

func (b *Bot) handleRemoveTime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireStaff(s, i, guildID) {
		return
	}

	targetID, err := b.targetMemberID(s, i, 0)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}
	seconds, err := parseDurationOption(i)
	if err != nil {
		b.respondWithError(s, i, "Invalid duration. Use forms like 1d2h30m, 0:02:30:00 or plain seconds.")
		return
	}

	adj, err := b.ledgerService.RemoveTime(ctx, targetID, guildID, seconds)
	if err != nil {
		log.Errorf("Error removing time: %v", err)
		b.respondWithError(s, i, "Failed to remove time. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Removed **%s** from <@%d> (-%s)",
		service.FormatDuration(adj.Seconds), targetID, FormatCoins(adj.Coins)))
}

func (b *Bot) handleSetTime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireStaff(s, i, guildID) {
		return
	}

	targetID, err := b.targetMemberID(s, i, 0)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}
	seconds, err := parseDurationOption(i)
	if err != nil {
		b.respondWithError(s, i, "Invalid duration. Use forms like 1d2h30m, 0:02:30:00 or plain seconds.")
		return
	}

	adj, err := b.ledgerService.SetTime(ctx, targetID, guildID, seconds)
	if err != nil {
		log.Errorf("Error setting time: %v", err)
		b.respondWithError(s, i, "Failed to set time. Please try again.")
		return
	}

	sign := "+"
	if adj.Removed {
		sign = "-"
	}
	b.respondEphemeral(s, i, fmt.Sprintf("✅ Set <@%d>'s current time to **%s** (%s%s)",
		targetID, service.FormatDuration(seconds), sign, FormatCoins(adj.Coins)))
}

func (b *Bot) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireStaff(s, i, guildID) {
		return
	}

	targetID, err := b.targetMemberID(s, i, 0)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	if err := b.ledgerService.ResetCurrent(ctx, targetID, guildID); err != nil {
		log.Errorf("Error resetting time: %v", err)
		b.respondWithError(s, i, "Failed to reset time. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Reset <@%d>'s current time to zero. Pending coins were kept.", targetID))
}

func (b *Bot) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	callerID, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireStaff(s, i, guildID) {
		return
	}

	targetID, err := b.targetMemberID(s, i, 0)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	cleared, err := b.ledgerService.Clear(ctx, targetID, guildID, callerID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error clearing account: %v", err)
		b.respondWithError(s, i, "Failed to clear the account. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Cleared <@%d>'s account. Dropped pending coins: %s", targetID, FormatCoins(cleared)))
}

func (b *Bot) handleTime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	callerID, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	targetID, err := b.targetMemberID(s, i, callerID)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	account, err := b.ledgerService.Snapshot(ctx, targetID, guildID)
	if err != nil {
		log.Errorf("Error getting account: %v", err)
		b.respondWithError(s, i, "Failed to look up the account. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, accountEmbed(targetID, account), true)
}

func (b *Bot) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	accounts, err := b.ledgerService.TopByCurrentSeconds(ctx, 10)
	if err != nil {
		log.Errorf("Error getting top accounts: %v", err)
		b.respondWithError(s, i, "Failed to build the leaderboard. Please try again.")
		return
	}
	if len(accounts) == 0 {
		b.respondEphemeral(s, i, "Nobody has unpaid time right now.")
		return
	}

	var sb strings.Builder
	for n, account := range accounts {
		fmt.Fprintf(&sb, "**%d.** <@%d> — %s (%s)\n",
			n+1, account.MemberID, service.FormatDuration(account.CurrentSeconds), FormatCoins(account.PendingCoins))
	}
	b.respondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "⏱️ Most unpaid time",
		Description: sb.String(),
		Color:       colorInfo,
	}, false)
}

func (b *Bot) handleGlobal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	callerID, _, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	targetID, err := b.targetMemberID(s, i, callerID)
	if err != nil {
		b.respondWithError(s, i, "Invalid user.")
		return
	}

	global, accounts, err := b.ledgerService.GlobalSnapshot(ctx, targetID)
	if err != nil {
		log.Errorf("Error getting global account: %v", err)
		b.respondWithError(s, i, "Failed to look up the account. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, globalEmbed(targetID, global, accounts), true)
}

func (b *Bot) handleSalary(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireAdmin(s, i) {
		return
	}

	opts := commandOptions(i)
	role := opts["role"].RoleValue(s, i.GuildID)
	if role == nil {
		b.respondWithError(s, i, "Invalid role.")
		return
	}
	roleID, err := strconv.ParseInt(role.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid role.")
		return
	}
	rate, err := models.NewAmountFromString(opts["rate"].StringValue())
	if err != nil {
		b.respondWithError(s, i, "Invalid rate. Use a non-negative number like 12.5.")
		return
	}

	if err := b.rateService.SetRoleRate(ctx, guildID, roleID, rate); err != nil {
		log.Errorf("Error setting role rate: %v", err)
		b.respondWithError(s, i, "Failed to set the rate. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ <@&%d> now earns **%s per hour**", roleID, FormatCoins(rate)))
}

func (b *Bot) handleSalaries(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	rates, err := b.rateService.ConfiguredRates(ctx, guildID)
	if err != nil {
		log.Errorf("Error listing role rates: %v", err)
		b.respondWithError(s, i, "Failed to list rates. Please try again.")
		return
	}
	if len(rates) == 0 {
		b.respondEphemeral(s, i, "No hourly rates are configured yet. Use /salary to add one.")
		return
	}

	var sb strings.Builder
	for _, rate := range rates {
		fmt.Fprintf(&sb, "<@&%d> — %s per hour\n", rate.RoleID, FormatCoins(rate.HourlyRate))
	}
	b.respondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "💰 Hourly rates",
		Description: sb.String(),
		Color:       colorInfo,
	}, false)
}
