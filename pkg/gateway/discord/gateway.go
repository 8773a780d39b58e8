package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// threadArchiveMinutes is how long an idle loan thread stays open.
const threadArchiveMinutes = 1440

// Session is the subset of *discordgo.Session the gateway uses.
type Session interface {
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMembersSearch(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	MessageThreadStartComplex(channelID, messageID string, data *discordgo.ThreadStart, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

var _ Session = (*discordgo.Session)(nil)

// Gateway turns Discord interactions into loan operations and renders loans
// back as cards in the loans channel.
type Gateway struct {
	session   Session
	service   *loans.Service
	channelID string
	clock     clock.Clock
	logger    *slog.Logger
	timeout   time.Duration
}

// Make sure we conform to the interface
var _ loans.Notifier = (*Gateway)(nil)

// New creates a Gateway posting to channelID.
func New(session Session, service *loans.Service, channelID string, clk clock.Clock, logger *slog.Logger) *Gateway {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		session:   session,
		service:   service,
		channelID: channelID,
		clock:     clk,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

// PostPanel sends the category picker to the loans channel.
func (g *Gateway) PostPanel() error {
	if _, err := g.session.ChannelMessageSendComplex(g.channelID, panelMessage()); err != nil {
		return fmt.Errorf("failed to post loans panel: %w", err)
	}
	return nil
}

// OnInteraction is registered with discordgo's AddHandler.
func (g *Gateway) OnInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	if err := g.HandleInteraction(ctx, ic.Interaction); err != nil {
		g.logger.Error("failed to handle interaction", "interaction_id", ic.ID, "error", err)
	}
}

// HandleInteraction dispatches one button press or modal submission.
// Domain failures are answered to the user; only delivery failures are returned.
// Loan cards changed by the interaction are re-rendered after it is answered.
func (g *Gateway) HandleInteraction(ctx context.Context, i *discordgo.Interaction) error {
	queue := &renderQueue{}
	err := g.dispatch(context.WithValue(ctx, renderQueueKey{}, queue), i)

	for _, loan := range queue.loans {
		if rerr := g.render(ctx, loan); rerr != nil {
			g.logger.Warn("failed to render loan card", "loan_id", loan.ID, "error", rerr)
		}
	}
	return err
}

func (g *Gateway) dispatch(ctx context.Context, i *discordgo.Interaction) error {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		id, ok := parseCustomID(i.MessageComponentData().CustomID)
		if !ok {
			return nil
		}
		switch id.Kind {
		case kindCategory:
			return g.openCreateModal(i, models.Category(id.Ref))
		case kindLoan:
			return g.handleLoanButton(ctx, i, id)
		case kindPayment:
			return g.handlePaymentButton(ctx, i, id)
		}

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		id, ok := parseCustomID(data.CustomID)
		if !ok {
			return nil
		}
		fields := modalValues(data.Components)
		switch id.Kind {
		case kindCreate:
			return g.createLoan(ctx, i, models.Category(id.Ref), fields)
		case kindPayModal:
			return g.proposePayment(ctx, i, id.Ref, fields[fieldAmount])
		}
	}
	return nil
}

func (g *Gateway) openCreateModal(i *discordgo.Interaction, c models.Category) error {
	if !c.Valid() {
		return g.reply(i, userMessage(loans.ErrInvalidCategory))
	}
	return g.respond(i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseModal, Data: createModal(c)})
}

func (g *Gateway) createLoan(ctx context.Context, i *discordgo.Interaction, c models.Category, fields map[string]string) error {
	creator := interactionUser(i)
	debtorID, debtorName := g.resolveDebtor(i.GuildID, fields[fieldDebtor])

	res, err := g.service.Create(ctx, loans.CreateRequest{
		GuildID:      i.GuildID,
		Category:     c,
		CreditorID:   creator.ID,
		CreditorName: displayName(i.Member, creator),
		DebtorID:     debtorID,
		DebtorName:   debtorName,
		Amount:       fields[fieldAmount],
		Stacks:       fields[fieldStacks],
		Extra:        fields[fieldExtra],
		Notes:        fields[fieldNotes],
	})
	if err != nil {
		return g.reply(i, userMessage(err))
	}

	msg := fmt.Sprintf("📄 Loan created: %s %s for %s. Waiting for them to accept.",
		res.Display.Current, res.Display.Category, actorRef(res.Loan.DebtorID, res.Loan.DebtorName))
	if note := correctionNote(c, fields[fieldAmount]); note != "" {
		msg += "\n" + note
	}
	return g.reply(i, msg)
}

func (g *Gateway) handleLoanButton(ctx context.Context, i *discordgo.Interaction, id customID) error {
	actor := interactionUser(i).ID
	s := g.service

	var (
		res *loans.Result
		err error
		msg string
	)
	switch id.Action {
	case actionAccept:
		res, err = s.Accept(ctx, id.Ref, actor)
		msg = "✅ Loan accepted."
	case actionDecline:
		res, err = s.Decline(ctx, id.Ref, actor)
		msg = "❌ Loan declined."
	case actionRefresh:
		res, err = s.Refresh(ctx, id.Ref, actor)
		msg = "🔄 Balance updated."
	case actionPay:
		return g.openPayModal(ctx, i, id.Ref, actor)
	case actionMarkPaid:
		res, err = s.MarkPaid(ctx, id.Ref, actor)
		msg = "🏁 Marked as paid, the creditor has to confirm."
	case actionConfirmDone:
		res, err = s.ConfirmCompletion(ctx, id.Ref, actor)
		msg = "✔ Loan completed."
	case actionDenyDone:
		res, err = s.DenyCompletion(ctx, id.Ref, actor)
		msg = "✖ Completion request withdrawn."
	case actionClose:
		res, err = s.RequestClose(ctx, id.Ref, actor)
		msg = "🔒 Close requested. Press \"Confirm close\" to close the loan."
	case actionCloseConfirm:
		res, err = s.ConfirmClose(ctx, id.Ref, actor)
		msg = "🔒 Loan closed."
	default:
		return nil
	}
	if err != nil {
		return g.reply(i, userMessage(err))
	}

	if res.Accrual != nil && id.Action == actionRefresh {
		msg = fmt.Sprintf("🔄 %d day(s) of interest applied. Current: %s", res.Accrual.Days, res.Display.Current)
	}
	return g.reply(i, msg)
}

func (g *Gateway) openPayModal(ctx context.Context, i *discordgo.Interaction, loanID, actor string) error {
	res, err := g.service.Get(ctx, loanID)
	if err != nil {
		return g.reply(i, userMessage(err))
	}
	if actor != res.Loan.DebtorID {
		return g.reply(i, userMessage(loans.ErrUnauthorized))
	}
	if res.Loan.Status != models.ACTIVE {
		return g.reply(i, userMessage(loans.ErrAlreadyHandled))
	}
	return g.respond(i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseModal, Data: payModal(res.Loan)})
}

func (g *Gateway) proposePayment(ctx context.Context, i *discordgo.Interaction, loanID, amount string) error {
	res, err := g.service.ProposePayment(ctx, loanID, interactionUser(i).ID, amount)
	if err != nil {
		return g.reply(i, userMessage(err))
	}

	loan, payment := res.Loan, res.Payment
	target := loan.ThreadRef
	if target == "" {
		target = g.channelID
	}
	_, err = g.session.ChannelMessageSendComplex(target, &discordgo.MessageSend{
		Content: fmt.Sprintf("💸 %s proposes a payment of %s. %s, please confirm.",
			mention(payment.ProposedBy), loans.FormatAmount(loan.Category, payment.Amount), mention(loan.CreditorID)),
		Components: paymentComponents(payment.ID),
	})
	if err != nil {
		g.logger.Warn("failed to post payment proposal", "loan_id", loan.ID, "payment_id", payment.ID, "error", err)
	}

	return g.reply(i, "💸 Payment proposed, waiting for the creditor.")
}

func (g *Gateway) handlePaymentButton(ctx context.Context, i *discordgo.Interaction, id customID) error {
	actor := interactionUser(i).ID

	var (
		res  *loans.Result
		err  error
		verb string
	)
	switch id.Action {
	case actionConfirm:
		res, err = g.service.ConfirmPayment(ctx, id.Ref, actor)
		verb = "✅ confirmed"
	case actionReject:
		res, err = g.service.RejectPayment(ctx, id.Ref, actor)
		verb = "❌ rejected"
	default:
		return nil
	}
	if err != nil {
		return g.reply(i, userMessage(err))
	}

	content := fmt.Sprintf("Payment of %s %s by %s. Current balance: %s",
		loans.FormatAmount(res.Loan.Category, res.Payment.Amount), verb, mention(actor), res.Display.Current)
	return g.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
}

type renderQueueKey struct{}

// renderQueue holds the loans changed while an interaction is handled, latest
// state per loan, in order of first change.
type renderQueue struct {
	loans []*models.Loan
}

func (q *renderQueue) add(loan *models.Loan) {
	for i, l := range q.loans {
		if l.ID == loan.ID {
			q.loans[i] = loan.Clone()
			return
		}
	}
	q.loans = append(q.loans, loan.Clone())
}

// LoanChanged posts the loan card on first sight and edits it afterwards. Inside
// HandleInteraction the render is deferred until the interaction is answered.
func (g *Gateway) LoanChanged(ctx context.Context, loan *models.Loan) error {
	if queue, ok := ctx.Value(renderQueueKey{}).(*renderQueue); ok {
		queue.add(loan)
		return nil
	}
	return g.render(ctx, loan)
}

func (g *Gateway) render(ctx context.Context, loan *models.Loan) error {
	embeds := []*discordgo.MessageEmbed{loanEmbed(loan, loans.DisplayFor(loan, g.clock.Now()))}
	components := loanComponents(loan)

	if loan.ThreadRef == "" {
		return g.postCard(ctx, loan, embeds, components)
	}

	// A thread started from a message shares the message's ID.
	_, err := g.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    g.channelID,
		ID:         loan.ThreadRef,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to edit loan card: %w", err)
	}

	if loan.Status == models.DECLINED || loan.Status == models.CLOSED {
		archived, locked := true, true
		if _, err := g.session.ChannelEdit(loan.ThreadRef, &discordgo.ChannelEdit{Archived: &archived, Locked: &locked}); err != nil {
			return fmt.Errorf("failed to archive loan thread: %w", err)
		}
	}
	return nil
}

func (g *Gateway) postCard(ctx context.Context, loan *models.Loan, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	msg, err := g.session.ChannelMessageSendComplex(g.channelID, &discordgo.MessageSend{
		Content:    "📌 New loan for " + actorRef(loan.DebtorID, loan.DebtorName),
		Embeds:     embeds,
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("failed to post loan card: %w", err)
	}

	thread, err := g.session.MessageThreadStartComplex(g.channelID, msg.ID, &discordgo.ThreadStart{
		Name:                threadName(loan),
		AutoArchiveDuration: threadArchiveMinutes,
	})
	if err != nil {
		return fmt.Errorf("failed to start loan thread: %w", err)
	}

	if err := g.service.AttachThread(ctx, loan.ID, thread.ID); err != nil {
		return fmt.Errorf("failed to attach loan thread: %w", err)
	}
	return nil
}

func (g *Gateway) reply(i *discordgo.Interaction, content string) error {
	return g.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (g *Gateway) respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	if err := g.session.InteractionRespond(i, resp); err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}

// userMessage turns a service error into the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, loans.ErrUnauthorized):
		return "⛔ You are not allowed to do this."
	case errors.Is(err, loans.ErrAlreadyHandled):
		return "⚠ This was already handled."
	case errors.Is(err, loans.ErrNotFound):
		return "❓ Loan not found."
	case errors.Is(err, loans.ErrSelfLoan):
		return "❌ You cannot lend to yourself."
	case errors.Is(err, loans.ErrInvalidCategory):
		return "❌ Unknown loan category."
	case errors.Is(err, loans.ErrInvalidAmount), errors.Is(err, loans.ErrPaymentExceedsBalance):
		return "❌ " + err.Error()
	case errors.Is(err, loans.ErrStoreUnavailable):
		return "⚠ Loans are unavailable right now, try again later."
	}
	return "⚠ Something went wrong."
}
