package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) registerCommands() error {
	userOption := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: desc,
			Required:    true,
		}
	}
	durationOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duration",
		Description: "Duration, e.g. 1d2h30m, 0:02:30:00 or plain seconds",
		Required:    true,
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "addtime",
			Description: "Add work time to a member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to credit"),
				durationOption,
			},
		},
		{
			Name:        "removetime",
			Description: "Remove work time from a member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to debit"),
				durationOption,
			},
		},
		{
			Name:        "settime",
			Description: "Set a member's current unpaid time",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to edit"),
				durationOption,
			},
		},
		{
			Name:        "reset",
			Description: "Reset a member's current unpaid time to zero",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to reset"),
			},
		},
		{
			Name:        "clear",
			Description: "Wipe a member's unpaid time and pending coins",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to clear"),
			},
		},
		{
			Name:        "time",
			Description: "Show a member's timeclock account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "top",
			Description: "Show members with the most unpaid time",
		},
		{
			Name:        "global",
			Description: "Show a member's totals across all servers",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "salary",
			Description: "Set the hourly coin rate for a role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to configure",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rate",
					Description: "Coins per hour, e.g. 12.5",
					Required:    true,
				},
			},
		},
		{
			Name:        "salaries",
			Description: "List configured hourly rates",
		},
		{
			Name:        "coincard",
			Description: "Set the card that funds coin payouts",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "card",
					Description: "Payment card code",
					Required:    true,
				},
			},
		},
		{
			Name:        "channel",
			Description: "Post the timeclock panel in a channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for the panel",
					Required:    true,
				},
			},
		},
		{
			Name:        "log",
			Description: "Set the channel for timeclock audit messages",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel for audit messages",
					Required:    true,
				},
			},
		},
		{
			Name:        "addstaff",
			Description: "Allow a role to use time adjustment commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to allow",
					Required:    true,
				},
			},
		},
		{
			Name:        "removestaff",
			Description: "Revoke a role's access to time adjustment commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to revoke",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

// requireStaff gates time adjustment commands: administrators always pass,
// everyone else needs a configured staff role. Returns false after replying
// when the caller is not allowed.
func (b *Bot) requireStaff(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) bool {
	if isAdmin(i) {
		return true
	}
	staff, err := b.guildConfigs.IsStaff(context.Background(), guildID, memberRoleIDs(i.Member))
	if err != nil {
		log.Errorf("Error checking staff roles: %v", err)
		b.respondWithError(s, i, "Unable to verify permissions. Please try again.")
		return false
	}
	if !staff {
		b.respondWithError(s, i, "You don't have permission to use this command.")
		return false
	}
	return true
}

// requireAdmin gates configuration commands to server administrators
func (b *Bot) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if !isAdmin(i) {
		b.respondWithError(s, i, "Only server administrators can use this command.")
		return false
	}
	return true
}
