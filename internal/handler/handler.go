package handler

import (
	"context"
	"time"

	"voucherbot/internal/domain"
	"voucherbot/internal/messages"
	"voucherbot/internal/middleware"
	"voucherbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const updateTimeout = 30 * time.Second

// screenFunc draws one screen for the resolved outcome
type screenFunc func(ctx context.Context, c tele.Context, out service.Outcome) error

// Services groups everything the bot talks to
type Services struct {
	Flow     *service.FlowService
	Vouchers *service.VoucherService
	Payments *service.PaymentService
	Delivery *service.DeliveryService
	Stats    *service.StatsService
	Forms    *service.FormService
}

// Handler manages all bot interactions
type Handler struct {
	bot     *tele.Bot
	svc     Services
	catalog *messages.Catalog
	admins  map[int64]struct{}
	screens map[domain.Action]screenFunc
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	svc Services,
	catalog *messages.Catalog,
	adminIDs []int64,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		bot:     bot,
		svc:     svc,
		catalog: catalog,
		admins:  make(map[int64]struct{}, len(adminIDs)),
		logger:  logger,
	}
	for _, id := range adminIDs {
		h.admins[id] = struct{}{}
	}
	h.screens = h.registry()
	return h
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/cancel", h.handleCancel)

	admin := h.bot.Group()
	admin.Use(middleware.AdminOnly(h.isAdmin, h.handleAccessDenied, h.logger))
	admin.Handle("/admin", h.handleAdmin)
	admin.Handle("/add", h.handleAdd)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Every inline button carries an action id
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// registry maps every routable action to its screen
func (h *Handler) registry() map[domain.Action]screenFunc {
	return map[domain.Action]screenFunc{
		domain.ActionStart:      h.screenStart,
		domain.ActionMainMenu:   h.screenMainMenu,
		domain.ActionFAQ:        h.screenFAQ,
		domain.ActionFAQHowTo:   h.screenFAQTopic("faq_how_to"),
		domain.ActionFAQCare:    h.screenFAQTopic("faq_care"),
		domain.ActionFAQHowMuch: h.screenFAQTopic("faq_how_much"),
		domain.ActionContact:    h.screenContact,
		domain.ActionLocation:   h.screenLocation,
		domain.ActionCancelForm: h.screenCancelForm,

		domain.ActionVoucherMenu:          h.screenVoucherMenu,
		domain.ActionEVoucher:             h.screenPriceList,
		domain.ActionChangePrice:          h.screenPriceList,
		domain.ActionPaperVoucher:         h.screenContactInfo("paper_voucher", domain.ActionVoucherMenu),
		domain.ActionPriceMore:            h.screenContactInfo("price_more", domain.ActionEVoucher),
		domain.ActionManagePrice:          h.screenPayment,
		domain.ActionCheckPayment:         h.screenCheckPayment,
		domain.ActionUserVouchers:         h.screenMyVouchers,
		domain.ActionUserActiveVouchers:   h.screenUserActiveVouchers,
		domain.ActionUserInactiveVouchers: h.screenUserUsedVouchers,
		domain.ActionSelectedUserVoucher:  h.screenUserSelectedVoucher,
		domain.ActionGetInChat:            h.screenGetInChat,
		domain.ActionGetInEmail:           h.screenGetInEmail,

		domain.ActionAdmin:          h.screenAdmin,
		domain.ActionStatistics:     h.screenStatistics,
		domain.ActionAddVoucher:     h.screenAddVoucher,
		domain.ActionChangeForm:     h.screenChangeForm,
		domain.ActionSaveVoucher:    h.screenSaveVoucher,
		domain.ActionActiveVouchers: h.screenAdminActiveVouchers,
		domain.ActionUsedVouchers:   h.screenAdminUsedVouchers,
		domain.ActionActivate:       h.screenActivate,
		domain.ActionExportLedger:   h.screenExportLedger,

		domain.ActionAdminSelectedVoucher: h.screenAdminSelectedVoucher,
		domain.ActionAlreadySelected:      h.screenAlreadySelected,
	}
}

func (h *Handler) isAdmin(chatID int64) bool {
	_, ok := h.admins[chatID]
	return ok
}

// adminRoute reports whether route may only be drawn for admins
func adminRoute(route domain.Action) bool {
	return route.IsAdmin() || route == domain.ActionAdminSelectedVoucher
}

// text returns localized copy
func (h *Handler) text(lang domain.Language, key string, args ...interface{}) string {
	return h.catalog.Text(lang, key, args...)
}

// renderer adapts the screen registry to the flow service for one update
func (h *Handler) renderer(c tele.Context) service.RenderFunc {
	return func(ctx context.Context, out service.Outcome) error {
		chatID := out.Session.ChatID

		if adminRoute(out.Route) && !h.isAdmin(chatID) {
			h.logger.Warn("Admin screen denied",
				zap.Int64("chat_id", chatID),
				zap.String("route", string(out.Route)),
				zap.Error(domain.ErrAccessDenied),
			)
			if out.Route == domain.ActionAdminSelectedVoucher {
				if err := h.svc.Flow.ClearFocus(ctx, chatID); err != nil {
					h.logger.Error("Failed to clear focus", zap.Int64("chat_id", chatID), zap.Error(err))
				}
			}
			return h.handleAccessDenied(c)
		}

		screen, ok := h.screens[out.Route]
		if !ok {
			h.logger.Error("No screen registered", zap.String("route", string(out.Route)))
			return h.show(c, h.text(out.Session.Language(), "error_generic"), h.mainMenuOnly(out.Session.Language()))
		}
		return screen(ctx, c, out)
	}
}

// dispatch runs action through the state machine and draws the resulting screen
func (h *Handler) dispatch(c tele.Context, action string) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	chatID := c.Chat().ID
	if err := h.svc.Flow.Dispatch(ctx, chatID, action, h.renderer(c)); err != nil {
		h.logger.Error("Failed to dispatch action",
			zap.Int64("chat_id", chatID),
			zap.String("action", action),
			zap.Error(err),
		)
		return h.sendError(ctx, c)
	}
	return nil
}

// sendError tells the user something went wrong in their language
func (h *Handler) sendError(ctx context.Context, c tele.Context) error {
	lang := domain.LangENG
	if sess, err := h.svc.Flow.Session(ctx, c.Chat().ID); err == nil {
		lang = sess.Language()
	}
	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(h.text(lang, "error_generic"))
}
