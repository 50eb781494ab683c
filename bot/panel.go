package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"timeclock/service"
)

const (
	buttonOpenSession  = "open_point"
	buttonCloseSession = "close_point"
	buttonViewAccount  = "view_point"
	buttonClaimCoins   = "claim_point"
)

// postPanel posts the timeclock panel with its four action buttons
func (b *Bot) postPanel(channelID string) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "⏱️ Timeclock",
				Description: "Clock in when you start working and clock out when you stop.\n" +
					"Your time earns coins at your role's hourly rate, claimable any time.",
				Color: colorInfo,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Clock in", Style: discordgo.SuccessButton, CustomID: buttonOpenSession},
					discordgo.Button{Label: "Clock out", Style: discordgo.DangerButton, CustomID: buttonCloseSession},
					discordgo.Button{Label: "My time", Style: discordgo.SecondaryButton, CustomID: buttonViewAccount},
					discordgo.Button{Label: "Claim coins", Style: discordgo.PrimaryButton, CustomID: buttonClaimCoins},
				},
			},
		},
	})
	return err
}

func (b *Bot) handlePanelInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	switch i.MessageComponentData().CustomID {
	case buttonOpenSession:
		b.handleOpenSession(s, i)
	case buttonCloseSession:
		b.handleCloseSession(s, i)
	case buttonViewAccount:
		b.handleViewAccount(s, i)
	case buttonClaimCoins:
		b.handleClaimCoins(s, i)
	}
}

func (b *Bot) handleOpenSession(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	memberID, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	session, err := b.sessionService.Open(ctx, memberID, guildID)
	if err != nil {
		var elsewhere *service.SessionOpenElsewhereError
		switch {
		case errors.Is(err, service.ErrSessionAlreadyOpen):
			b.respondWithError(s, i, "You are already clocked in here. Clock out first.")
		case errors.As(err, &elsewhere):
			b.respondWithError(s, i, "You are already clocked in on another server. Clock out there first.")
		default:
			log.Errorf("Error opening session: %v", err)
			b.respondWithError(s, i, "Failed to clock in. Please try again.")
		}
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Clocked in %s", FormatDiscordTimestamp(session.StartedAt, "R")))
}

func (b *Bot) handleCloseSession(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	memberID, _, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	closed, err := b.sessionService.Close(ctx, memberID)
	if err != nil {
		if errors.Is(err, service.ErrNoOpenSession) {
			b.respondWithError(s, i, "You are not clocked in.")
			return
		}
		log.Errorf("Error closing session: %v", err)
		b.respondWithError(s, i, "Failed to clock out. Please try again.")
		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("✅ Clocked out after **%s**, earning %s",
		service.FormatDuration(closed.DurationSeconds), FormatCoins(closed.Coins)))
}

func (b *Bot) handleViewAccount(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	memberID, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, err := b.ledgerService.Snapshot(ctx, memberID, guildID)
	if err != nil {
		log.Errorf("Error getting account: %v", err)
		b.respondWithError(s, i, "Failed to look up your account. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, accountEmbed(memberID, account), true)
}

func (b *Bot) handleClaimCoins(s *discordgo.Session, i *discordgo.InteractionCreate) {
	memberID, guildID, err := interactionIDs(i)
	if err != nil {
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// The payment call can take a while, so acknowledge first and follow up.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Errorf("Error deferring claim response: %v", err)
		return
	}

	result, err := b.claimService.Claim(context.Background(), memberID, guildID)
	if err != nil {
		b.followUpWithError(s, i, claimErrorMessage(err))
		return
	}

	content := fmt.Sprintf("✅ Paid out %s (transaction `%s`)", FormatCoins(result.Amount), result.SettlementID)
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Errorf("Error sending claim follow-up: %v", err)
	}
}

func claimErrorMessage(err error) string {
	var settlement *service.SettlementError
	switch {
	case errors.Is(err, service.ErrNothingToClaim):
		return "You have no pending coins to claim."
	case errors.Is(err, service.ErrNoPaymentDestination):
		return "No coin card is configured for this server. Ask an administrator to run /coincard."
	case errors.As(err, &settlement):
		log.Errorf("Settlement failed: %v", err)
		switch settlement.Reason {
		case service.SettlementReasonTimeout:
			return "The payment service took too long. Your coins are untouched, try again later."
		case service.SettlementReasonRejected:
			return "The payment service rejected the transfer. Your coins are untouched."
		default:
			return "Could not reach the payment service. Your coins are untouched, try again later."
		}
	default:
		log.Errorf("Error claiming coins: %v", err)
		return "Failed to claim. Please try again."
	}
}
