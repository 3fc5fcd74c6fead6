package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// Reply texts sent back to the SMS sender.
const (
	ReplyUnauthorized  = "Sorry, you are not authorized to send notifications via SMS."
	ReplyMediaReceived = "Thank you! Your image has been received and saved."
	ReplyInternalError = "Sorry, there was an error processing your message. Please try again later."
)

// NoRecipientsReply is the reply for a group that resolved to nobody.
func NoRecipientsReply(group string) string {
	return "No recipients found for group: " + group
}

// SuccessReply is the reply after a fan-out to n members of group.
func SuccessReply(n int, group string) string {
	noun := "members"
	if n == 1 {
		noun = "member"
	}
	return fmt.Sprintf("Notification sent to %d %s of %s.", n, noun, group)
}

// Writes that must survive the provider hanging up run on a context detached
// from the request, bounded by these timeouts.
const (
	AuditWriteTimeout  = 5 * time.Second
	FanoutWriteTimeout = 15 * time.Second
)

func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// Reply is the terminal result of processing one inbound message.
type Reply struct {
	Outcome domain.Outcome
	Text    string
	Group   string
	Count   int
}

// CommandProcessor runs one inbound message through authorization, the
// media or command path, and the audit log.
type CommandProcessor struct {
	authorizer *SenderAuthorizer
	groups     *GroupRegistry
	fanout     *FanoutWriter
	media      *MediaIngestor
	audit      *AuditLogger
	logger     *slog.Logger
}

func NewCommandProcessor(
	authorizer *SenderAuthorizer,
	groups *GroupRegistry,
	fanout *FanoutWriter,
	media *MediaIngestor,
	audit *AuditLogger,
	logger *slog.Logger,
) *CommandProcessor {
	return &CommandProcessor{
		authorizer: authorizer,
		groups:     groups,
		fanout:     fanout,
		media:      media,
		audit:      audit,
		logger:     logger.With("component", "command_processor"),
	}
}

// Process handles msg and returns the single reply for the sender. Every
// call, including a recovered panic, writes exactly one audit entry.
func (p *CommandProcessor) Process(ctx context.Context, msg domain.InboundMessage) (reply Reply) {
	start := time.Now()
	logger := p.logger.With("message_sid", msg.MessageSID)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Panic while processing inbound message", "panic", r)
			reply = Reply{Outcome: domain.OutcomeError, Text: ReplyInternalError, Group: reply.Group}
		}
		auditCtx, cancel := detached(ctx, AuditWriteTimeout)
		p.audit.Record(auditCtx, msg, reply.Outcome, reply.Group, reply.Count)
		cancel()
		inboundMessagesCounter.WithLabelValues(string(reply.Outcome)).Inc()
		processingDurationHist.WithLabelValues(string(reply.Outcome)).Observe(time.Since(start).Seconds())
		logger.InfoContext(ctx, "Inbound message processed",
			"outcome", reply.Outcome,
			"group", reply.Group,
			"notifications", reply.Count,
			"duration", time.Since(start),
		)
	}()

	auth := p.authorizer.Authorize(ctx, msg.From)
	if !auth.Authorized {
		logger.WarnContext(ctx, "Unauthorized SMS sender", "sender", auth.NormalizedSender, "degraded", auth.Degraded())
		return Reply{Outcome: domain.OutcomeUnauthorized, Text: ReplyUnauthorized}
	}
	logger.InfoContext(ctx, "Authorized SMS sender", "sender", auth.NormalizedSender, "role", auth.Role)

	if msg.HasImageMedia() {
		result := p.media.Ingest(ctx, msg)
		if err := result.Err(); err != nil {
			logger.WarnContext(ctx, "Some media attachments were not stored", "error", err)
		}
		return Reply{Outcome: domain.OutcomeMedia, Text: ReplyMediaReceived, Count: 0}
	}

	cmd := domain.ParseCommand(msg.Body)
	recipients := p.groups.Resolve(ctx, cmd.Group)
	if len(recipients.Recipients) == 0 {
		return Reply{Outcome: domain.OutcomeNoRecipients, Text: NoRecipientsReply(cmd.Group), Group: cmd.Group}
	}

	fanoutCtx, cancel := detached(ctx, FanoutWriteTimeout)
	defer cancel()
	n, err := p.fanout.Write(fanoutCtx, recipients.Recipients, cmd, msg)
	if err != nil {
		logger.ErrorContext(ctx, "Notification fan-out failed", "error", err, "group", cmd.Group)
		return Reply{Outcome: domain.OutcomeError, Text: ReplyInternalError, Group: cmd.Group}
	}
	return Reply{Outcome: domain.OutcomeSuccess, Text: SuccessReply(n, cmd.Group), Group: cmd.Group, Count: n}
}

// RecordInvalid audits a delivery the transport layer could not turn into
// a complete InboundMessage and returns the generic error reply.
func (p *CommandProcessor) RecordInvalid(ctx context.Context, msg domain.InboundMessage, cause error) Reply {
	p.logger.WarnContext(ctx, "Rejected malformed inbound message", "error", cause, "message_sid", msg.MessageSID)
	auditCtx, cancel := detached(ctx, AuditWriteTimeout)
	defer cancel()
	p.audit.Record(auditCtx, msg, domain.OutcomeInvalid, "", 0)
	inboundMessagesCounter.WithLabelValues(string(domain.OutcomeInvalid)).Inc()
	return Reply{Outcome: domain.OutcomeInvalid, Text: ReplyInternalError}
}
