package bot

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"timeclock/events"
	"timeclock/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token string
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	ledgerService  service.LedgerService
	sessionService service.SessionService
	claimService   service.ClaimService
	rateService    service.RateService
	guildConfigs   service.GuildConfigService
	eventBus       *events.Bus
}

// New wires the bot onto an already created Discord session and opens the
// gateway connection. The session is created by the caller so other
// components can share it before the bot starts.
func New(config Config, dg *discordgo.Session, ledgerService service.LedgerService, sessionService service.SessionService, claimService service.ClaimService, rateService service.RateService, guildConfigs service.GuildConfigService, eventBus *events.Bus) (*Bot, error) {
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:         config,
		session:        dg,
		ledgerService:  ledgerService,
		sessionService: sessionService,
		claimService:   claimService,
		rateService:    rateService,
		guildConfigs:   guildConfigs,
		eventBus:       eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handlePanelInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Mirror committed ledger events into guild audit channels
	bot.subscribeAuditLog()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "addtime":
		b.handleAddTime(s, i)
	case "removetime":
		b.handleRemoveTime(s, i)
	case "settime":
		b.handleSetTime(s, i)
	case "reset":
		b.handleReset(s, i)
	case "clear":
		b.handleClear(s, i)
	case "time":
		b.handleTime(s, i)
	case "top":
		b.handleTop(s, i)
	case "global":
		b.handleGlobal(s, i)
	case "salary":
		b.handleSalary(s, i)
	case "salaries":
		b.handleSalaries(s, i)
	case "coincard":
		b.handleCoinCard(s, i)
	case "channel":
		b.handleChannel(s, i)
	case "log":
		b.handleLog(s, i)
	case "addstaff":
		b.handleAddStaff(s, i)
	case "removestaff":
		b.handleRemoveStaff(s, i)
	}
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending response: %v", err)
	}
}

func (b *Bot) respondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error sending embed response: %v", err)
	}
}

// interactionIDs extracts the caller's member and guild ids from an
// interaction. Fails for DM interactions, which have no member.
func interactionIDs(i *discordgo.InteractionCreate) (memberID, guildID int64, err error) {
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, fmt.Errorf("interaction has no guild member")
	}
	memberID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid member id %q: %w", i.Member.User.ID, err)
	}
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild id %q: %w", i.GuildID, err)
	}
	return memberID, guildID, nil
}

func memberRoleIDs(m *discordgo.Member) []int64 {
	ids := make([]int64, 0, len(m.Roles))
	for _, r := range m.Roles {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
