package discord

import (
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Modal field IDs.
const (
	fieldAmount = "amount"
	fieldStacks = "stacks"
	fieldExtra  = "extra"
	fieldNotes  = "notes"
	fieldDebtor = "debtor"
)

const maxButtonsPerRow = 5

var categoryEmoji = map[models.Category]string{
	models.MONEY: "💰",
	models.ITEM:  "📦",
	models.KILL:  "☠",
	models.INFO:  "ℹ",
}

// panelMessage is the category picker posted in the loans channel.
func panelMessage() *discordgo.MessageSend {
	buttons := make([]discordgo.MessageComponent, 0, len(models.Categories))
	for _, c := range models.Categories {
		style := discordgo.PrimaryButton
		if c == models.INFO {
			style = discordgo.SecondaryButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    categoryEmoji[c] + " " + loans.Label(c),
			Style:    style,
			CustomID: customID{Kind: kindCategory, Ref: string(c)}.String(),
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "📄 Loans",
			Description: "Pick a category to open a new loan.",
			Color:       0x3498db,
		}},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	}
}

func textInput(id, label, placeholder string, style discordgo.TextInputStyle, maxLength int) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID:    id,
			Label:       label,
			Style:       style,
			Placeholder: placeholder,
			Required:    true,
			MaxLength:   maxLength,
		},
	}}
}

// createModal asks for the fields of a new loan of the given category.
func createModal(c models.Category) *discordgo.InteractionResponseData {
	var fields []discordgo.MessageComponent
	switch c {
	case models.MONEY:
		fields = append(fields, textInput(fieldAmount, "Amount", "1.5m, 200k, 1500000", discordgo.TextInputShort, 32))
	case models.ITEM:
		fields = append(fields,
			textInput(fieldStacks, "Stacks (64 items each)", "2", discordgo.TextInputShort, 20),
			textInput(fieldExtra, "Extra items (0-63)", "10", discordgo.TextInputShort, 2),
		)
	case models.KILL:
		fields = append(fields, textInput(fieldAmount, "Kills", "25", discordgo.TextInputShort, 5))
	case models.INFO:
		fields = append(fields, textInput(fieldNotes, "Information", "What was shared", discordgo.TextInputParagraph, 4000))
	}
	fields = append(fields, textInput(fieldDebtor, "Debtor (ID or @mention)", "@someone", discordgo.TextInputShort, 100))

	return &discordgo.InteractionResponseData{
		CustomID:   customID{Kind: kindCreate, Ref: string(c)}.String(),
		Title:      categoryEmoji[c] + " New loan - " + loans.Label(c),
		Components: fields,
	}
}

// payModal asks the debtor for a payment amount.
func payModal(loan *models.Loan) *discordgo.InteractionResponseData {
	placeholder := "500k"
	if loan.Category != models.MONEY {
		placeholder = "10"
	}
	return &discordgo.InteractionResponseData{
		CustomID:   customID{Kind: kindPayModal, Ref: loan.ID}.String(),
		Title:      "Loan payment",
		Components: []discordgo.MessageComponent{textInput(fieldAmount, "Amount to pay", placeholder, discordgo.TextInputShort, 32)},
	}
}

// loanComponents returns the buttons of a loan card for its current state.
func loanComponents(loan *models.Loan) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	add := func(action, label string, style discordgo.ButtonStyle) {
		buttons = append(buttons, discordgo.Button{Label: label, Style: style, CustomID: loanButtonID(action, loan.ID)})
	}

	switch loan.Status {
	case models.PENDING:
		add(actionAccept, "✅ Accept", discordgo.SuccessButton)
		add(actionDecline, "❌ Decline", discordgo.DangerButton)
	case models.ACTIVE:
		if loan.Category != models.INFO {
			add(actionPay, "💸 Pay", discordgo.PrimaryButton)
			add(actionRefresh, "🔄 Refresh", discordgo.SecondaryButton)
		}
		if loan.CompletionRequestedBy == "" {
			add(actionMarkPaid, "🏁 Mark as paid", discordgo.SuccessButton)
		} else {
			add(actionConfirmDone, "✔ Confirm paid", discordgo.SuccessButton)
			add(actionDenyDone, "✖ Not paid", discordgo.DangerButton)
		}
	default:
		return []discordgo.MessageComponent{}
	}

	if loan.CloseRequestedBy == "" {
		add(actionClose, "🔒 Close", discordgo.SecondaryButton)
	} else {
		add(actionCloseConfirm, "⚠ Confirm close", discordgo.DangerButton)
	}

	return rows(buttons)
}

// paymentComponents are the creditor's controls under a proposed payment.
func paymentComponents(paymentID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "✅ Confirm", Style: discordgo.SuccessButton, CustomID: paymentButtonID(actionConfirm, paymentID)},
		discordgo.Button{Label: "❌ Reject", Style: discordgo.DangerButton, CustomID: paymentButtonID(actionReject, paymentID)},
	}}}
}

func rows(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
	var out []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := min(len(buttons), maxButtonsPerRow)
		out = append(out, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return out
}
