package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// RoleProvider resolves a member's roles through Discord. It implements
// service.RoleProvider; lookup failures are reported to the caller, which
// degrades the member to rate zero.
type RoleProvider struct {
	session *discordgo.Session
}

// NewRoleProvider creates a role provider over a Discord session
func NewRoleProvider(session *discordgo.Session) *RoleProvider {
	return &RoleProvider{session: session}
}

// MemberRoles returns the member's role ids in the guild, preferring the
// gateway state cache over a REST fetch
func (p *RoleProvider) MemberRoles(ctx context.Context, guildID, memberID int64) ([]int64, error) {
	guild := strconv.FormatInt(guildID, 10)
	member := strconv.FormatInt(memberID, 10)

	m, err := p.session.State.Member(guild, member)
	if err != nil {
		m, err = p.session.GuildMember(guild, member, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch member %d in guild %d: %w", memberID, guildID, err)
		}
	}
	return memberRoleIDs(m), nil
}
