package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"timeclock/models"
	"timeclock/service"
)

const (
	colorInfo    = 0x5865F2
	colorSuccess = 0x57F287
	colorWarning = 0xFEE75C
)

func accountEmbed(memberID int64, account *models.Account) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏱️ Timeclock account",
		Description: fmt.Sprintf("<@%d>", memberID),
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current time", Value: service.FormatDuration(account.CurrentSeconds), Inline: true},
			{Name: "Total time", Value: service.FormatDuration(account.TotalSeconds), Inline: true},
			{Name: "Pending coins", Value: FormatCoins(account.PendingCoins), Inline: true},
			{Name: "Received coins", Value: FormatCoins(account.TotalReceived), Inline: true},
		},
	}
}

func globalEmbed(memberID int64, global *models.GlobalAccount, accounts []*models.Account) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🌐 All servers",
		Description: fmt.Sprintf("<@%d>", memberID),
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total time", Value: service.FormatDuration(global.TotalSeconds), Inline: true},
			{Name: "Pending coins", Value: FormatCoins(global.TotalPending), Inline: true},
			{Name: "Received coins", Value: FormatCoins(global.TotalReceived), Inline: true},
		},
	}

	if len(accounts) > 0 {
		var sb strings.Builder
		for _, account := range accounts {
			fmt.Fprintf(&sb, "Server `%d` — %s, %s pending\n",
				account.GuildID, service.FormatDuration(account.TotalSeconds), FormatCoins(account.PendingCoins))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Per server",
			Value: sb.String(),
		})
	}
	return embed
}
