package discord

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/numeric"
	"github.com/bwmarrin/discordgo"
)

var (
	mentionPattern   = regexp.MustCompile(`^<@!?(\d{15,21})>$`)
	snowflakePattern = regexp.MustCompile(`^\d{15,21}$`)
)

// resolveDebtor maps what the creditor typed to a user ID. Mentions and raw IDs
// are taken as is; anything else is looked up among the guild members. When
// nothing matches, the ID is empty and only the typed name is kept.
func (g *Gateway) resolveDebtor(guildID, input string) (id, name string) {
	input = strings.TrimSpace(input)
	if m := mentionPattern.FindStringSubmatch(input); m != nil {
		return m[1], ""
	}
	if snowflakePattern.MatchString(input) {
		return input, ""
	}

	query := strings.TrimPrefix(input, "@")
	if query == "" || guildID == "" {
		return "", input
	}

	members, err := g.session.GuildMembersSearch(guildID, query, 1)
	if err != nil {
		g.logger.Warn("failed to search guild members", "guild_id", guildID, "error", err)
		return "", input
	}
	if len(members) == 0 || members[0].User == nil {
		return "", input
	}
	return members[0].User.ID, displayName(members[0], members[0].User)
}

// interactionUser returns who pressed the control, in a guild or in a DM.
func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

func displayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// modalValues flattens the text inputs of a submitted modal by custom ID.
func modalValues(components []discordgo.MessageComponent) map[string]string {
	values := make(map[string]string)
	for _, c := range components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

// correctionNote tells the creditor when a money amount was rewritten to its canonical form.
func correctionNote(c models.Category, amount string) string {
	if c != models.MONEY {
		return ""
	}
	m, err := numeric.ParseMagnitudeDetailed(amount)
	if err != nil || !m.Corrected {
		return ""
	}
	return fmt.Sprintf("✏ Input corrected automatically: `%s` → `%s`", strings.TrimSpace(amount), m.Canonical)
}
