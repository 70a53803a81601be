package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
	"assist_backend/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultAuditLimit = 10

// AdminBot answers operator commands in Telegram for a fixed set of chat users.
type AdminBot struct {
	bot      *tgbotapi.BotAPI
	admin    *service.AdminService
	adminIDs map[int64]struct{}
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger
}

func NewAdminBot(token string, admin *service.AdminService, adminIDs []int64) (*AdminBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newAdminBot(admin, adminIDs)
	b.bot = api
	b.log.Info("admin bot authorized", "username", api.Self.UserName)
	return b, nil
}

func newAdminBot(admin *service.AdminService, adminIDs []int64) *AdminBot {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &AdminBot{
		admin:    admin,
		adminIDs: ids,
		stopCh:   make(chan struct{}),
		log:      logger.With("component", "admin_bot"),
	}
}

// Start blocks, dispatching commands until Stop is called.
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.From == nil || !msg.IsCommand() || !b.isAdmin(msg.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(msg)
		}
	}
}

func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("admin bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("admin bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *AdminBot) isAdmin(userID int64) bool {
	_, ok := b.adminIDs[userID]
	return ok
}

func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.respond(ctx, msg.Command(), msg.CommandArguments()))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

// respond renders the HTML answer for one command.
func (b *AdminBot) respond(ctx context.Context, command, args string) string {
	switch command {
	case "start", "help":
		return helpMessage
	case "stats":
		return b.handleStats(ctx)
	case "audit":
		return b.handleAudit(ctx, args)
	case "user":
		return b.handleUser(ctx, args)
	default:
		return "Unknown command. Use /help for the list of commands."
	}
}

const helpMessage = `<b>Admin commands</b>

/stats - installation statistics
/audit [category] [limit] - recent audit entries (auth, task, board)
/user &lt;id&gt; [limit] - audit trail of one user`

func (b *AdminBot) handleStats(ctx context.Context) string {
	stats, err := b.admin.GetStats(ctx)
	if err != nil {
		b.log.Error("stats failed", "error", err)
		return "Error: could not load statistics"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Statistics</b>\n\n")
	fmt.Fprintf(&sb, "Users: %d\n", stats.TotalUsers)
	fmt.Fprintf(&sb, "Tasks: %d (today: %d, overdue: %d)\n", stats.TotalTasks, stats.TasksToday, stats.OverdueTasks)
	fmt.Fprintf(&sb, "Boards: %d\n", stats.TotalBoards)
	for status, n := range stats.TasksByStatus {
		fmt.Fprintf(&sb, "• %s: %d\n", html.EscapeString(status), n)
	}
	return sb.String()
}

func (b *AdminBot) handleAudit(ctx context.Context, args string) string {
	category := ""
	limit := defaultAuditLimit
	for _, f := range strings.Fields(args) {
		if n, err := strconv.Atoi(f); err == nil {
			limit = n
			continue
		}
		category = f
	}

	logs, err := b.admin.AuditTrail(ctx, category, 0, limit)
	if err != nil {
		b.log.Error("audit failed", "error", err)
		return "Error: could not load audit log"
	}
	return formatAudit("Recent audit entries", logs)
}

func (b *AdminBot) handleUser(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Usage: /user &lt;id&gt; [limit]"
	}
	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || userID <= 0 {
		return "Usage: /user &lt;id&gt; [limit]"
	}
	limit := defaultAuditLimit
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			limit = n
		}
	}

	logs, err := b.admin.AuditTrail(ctx, "", userID, limit)
	if err != nil {
		b.log.Error("user audit failed", "user_id", userID, "error", err)
		return "Error: could not load audit log"
	}
	return formatAudit(fmt.Sprintf("Audit trail of user %d", userID), logs)
}

func formatAudit(title string, logs []*domain.AuditLog) string {
	if len(logs) == 0 {
		return "No audit entries."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n\n", html.EscapeString(title))
	for _, l := range logs {
		fmt.Fprintf(&sb, "%s user=%d %s/%s",
			l.CreatedAt.UTC().Format("2006-01-02 15:04:05"), l.UserID,
			html.EscapeString(l.Category), html.EscapeString(l.Action))
		if l.IP != "" {
			fmt.Fprintf(&sb, " ip=%s", html.EscapeString(l.IP))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
