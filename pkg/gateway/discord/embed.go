package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/numeric"
	"github.com/bwmarrin/discordgo"
)

var statusColor = map[models.LoanStatus]int{
	models.PENDING:   0xffff00,
	models.ACTIVE:    0x00ff00,
	models.DECLINED:  0xff0000,
	models.COMPLETED: 0x3498db,
	models.CLOSED:    0x95a5a6,
}

// loanEmbed renders the loan card.
func loanEmbed(loan *models.Loan, d loans.Display) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📄 Loan %s - %s %s", shortID(loan.ID), categoryEmoji[loan.Category], d.Category),
		Color: statusColor[loan.Status],
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🟢 Creditor", Value: actorRef(loan.CreditorID, loan.CreditorName), Inline: true},
			{Name: "🔴 Debtor", Value: actorRef(loan.DebtorID, loan.DebtorName), Inline: true},
			{Name: "📌 Status", Value: string(loan.Status), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Loan ID: " + loan.ID},
		Timestamp: loan.CreatedAt.Format(time.RFC3339),
	}

	switch loan.Category {
	case models.INFO:
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "ℹ Information", Value: orDash(loan.Notes)})
	case models.ITEM:
		e.Fields = append(e.Fields,
			&discordgo.MessageEmbedField{Name: "📦 Original", Value: itemValue(d.Original, d.OriginalStacks), Inline: true},
			&discordgo.MessageEmbedField{Name: "🔄 Current", Value: itemValue(d.Current, d.CurrentStacks), Inline: true},
		)
	default:
		e.Fields = append(e.Fields,
			&discordgo.MessageEmbedField{Name: categoryEmoji[loan.Category] + " Original", Value: d.Original, Inline: true},
			&discordgo.MessageEmbedField{Name: "🔄 Current", Value: d.Current, Inline: true},
		)
	}

	if loan.Status == models.ACTIVE {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "📅 Days active", Value: strconv.Itoa(d.DaysActive), Inline: true})
	}
	if loan.CompletionRequestedBy != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "🏁 Marked as paid", Value: "Waiting for the creditor to confirm."})
	}
	if loan.CloseRequestedBy != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "🔒 Close requested", Value: "By " + mention(loan.CloseRequestedBy) + ", waiting for confirmation."})
	}
	return e
}

func itemValue(units string, stacks *numeric.StackDisplay) string {
	if stacks == nil {
		return units + " items"
	}
	return units + " items\n" + stacks.String()
}

// actorRef renders a party: a mention when the id is known, else the typed name.
func actorRef(id, name string) string {
	if id == "" || id == loans.UnknownActor {
		return orDash(name)
	}
	return mention(id)
}

func mention(id string) string {
	return "<@" + id + ">"
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func threadName(loan *models.Loan) string {
	return fmt.Sprintf("Loan %s - %s", shortID(loan.ID), loans.Label(loan.Category))
}
