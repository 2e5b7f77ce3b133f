package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/suvana/suvana/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing page.
type Handler struct {
	Sessions viewdata.ToastSource
	Log      *zap.Logger
}

func NewHandler(sessions viewdata.ToastSource, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		Log:      logger,
	}
}

// featureCard is one of the "Why Choose Suvana?" cards.
type featureCard struct {
	Icon  string
	Title string
	Body  string
}

type homeData struct {
	viewdata.BaseVM
	Tagline  string
	Features []featureCard
}

var features = []featureCard{
	{
		Icon:  "🛡",
		Title: "Secure & Transparent",
		Body:  "Built on Sui blockchain for maximum security. All transactions are transparent and immutable.",
	},
	{
		Icon:  "👥",
		Title: "Community Driven",
		Body:  "Join trusted circles with friends, family, and community members. Build wealth together.",
	},
	{
		Icon:  "📈",
		Title: "Guaranteed Returns",
		Body:  "Get your full payout when it's your turn. No hidden fees, no complex calculations.",
	},
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "home", h.buildData(w, r))
}

func (h *Handler) buildData(w http.ResponseWriter, r *http.Request) homeData {
	return homeData{
		BaseVM:   viewdata.NewBaseVM(w, r, h.Sessions, "", "/"),
		Tagline:  "Experience the power of traditional Nigerian savings with modern blockchain security",
		Features: features,
	}
}
