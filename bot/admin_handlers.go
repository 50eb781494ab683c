package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) handleCoinCard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireAdmin(s, i) {
		return
	}

	card := commandOptions(i)["card"].StringValue()
	if err := b.guildConfigs.SetCoinCard(ctx, guildID, card); err != nil {
		log.Errorf("Error setting coin card: %v", err)
		b.respondWithError(s, i, "Failed to save the card. Please try again.")
		return
	}

	b.respondEphemeral(s, i, "✅ Coin card saved. Claims will be paid from it.")
}

func (b *Bot) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireAdmin(s, i) {
		return
	}

	channel := commandOptions(i)["channel"].ChannelValue(s)
	if channel == nil {
		b.respondWithError(s, i, "Invalid channel.")
		return
	}
	channelID, err := strconv.ParseInt(channel.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid channel.")
		return
	}

	if err := b.guildConfigs.SetPanelChannel(ctx, guildID, channelID); err != nil {
		log.Errorf("Error setting panel channel: %v", err)
		b.respondWithError(s, i, "Failed to save the channel. Please try again.")
		return
	}

	if err := b.postPanel(channel.ID); err != nil {
		log.Errorf("Error posting panel: %v", err)
		b.respondWithError(s, i, "Saved the channel but could not post the panel. Check my permissions there.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Timeclock panel posted in <#%d>", channelID))
}

func (b *Bot) handleLog(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireAdmin(s, i) {
		return
	}

	channel := commandOptions(i)["channel"].ChannelValue(s)
	if channel == nil {
		b.respondWithError(s, i, "Invalid channel.")
		return
	}
	channelID, err := strconv.ParseInt(channel.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid channel.")
		return
	}

	if err := b.guildConfigs.SetLogChannel(ctx, guildID, channelID); err != nil {
		log.Errorf("Error setting log channel: %v", err)
		b.respondWithError(s, i, "Failed to save the channel. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Audit messages will be posted in <#%d>", channelID))
}

func (b *Bot) handleAddStaff(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireAdmin(s, i) {
		return
	}

	role := commandOptions(i)["role"].RoleValue(s, i.GuildID)
	if role == nil {
		b.respondWithError(s, i, "Invalid role.")
		return
	}
	roleID, err := strconv.ParseInt(role.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid role.")
		return
	}

	if err := b.guildConfigs.AddStaffRole(ctx, guildID, roleID); err != nil {
		log.Errorf("Error adding staff role: %v", err)
		b.respondWithError(s, i, "Failed to add the staff role. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ <@&%d> can now manage work time", roleID))
}

func (b *Bot) handleRemoveStaff(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if !b.requireAdmin(s, i) {
		return
	}

	role := commandOptions(i)["role"].RoleValue(s, i.GuildID)
	if role == nil {
		b.respondWithError(s, i, "Invalid role.")
		return
	}
	roleID, err := strconv.ParseInt(role.ID, 10, 64)
	if err != nil {
		b.respondWithError(s, i, "Invalid role.")
		return
	}

	if err := b.guildConfigs.RemoveStaffRole(ctx, guildID, roleID); err != nil {
		log.Errorf("Error removing staff role: %v", err)
		b.respondWithError(s, i, "Failed to remove the staff role. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ <@&%d> can no longer manage work time", roleID))
}
