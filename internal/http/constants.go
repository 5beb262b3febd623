package httpx

import "github.com/target/marketplace-ui/internal/domain/route"

// Template paths used for loading templates in tests and development.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Cookie names shared by the auth handlers.
const (
	DefaultSessionCookie     = "session_id"
	oauthStateCookie         = "oauth_state"
	oauthNonceCookie         = "oauth_nonce"
	postLoginRedirectCookie  = "post_login_redirect"
	oauthCookieMaxAgeSeconds = 600
)

// Views rendered outside the route table.
const (
	PageLoading = "loading"
	PageError   = "error"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	route.PageSignIn:         "sign-in-content",
	route.PageSignUp:         "sign-up-content",
	route.PageForgotPassword: "forgot-password-content",
	route.PageDashboard:      "dashboard-content",
	route.PageMessages:       "messages-content",
	route.PageProfile:        "profile-content",
	route.PageSellerSetting:  "seller-setting-content",
	route.PageBuyerSetting:   "buyer-setting-content",
	route.PageBuyerProfile:   "buyer-profile-content",
	route.PageNotFound:       "not-found-content",
	PageLoading:              "loading-content",
	PageError:                "error-content",
}

//nolint:gochecknoglobals // static read-only lookup for page titles
var pageTitles = map[string]string{
	route.PageSignIn:         "Sign in",
	route.PageSignUp:         "Create an account",
	route.PageForgotPassword: "Forgot password",
	route.PageDashboard:      "Dashboard",
	route.PageMessages:       "Messages",
	route.PageProfile:        "Profile",
	route.PageSellerSetting:  "Seller settings",
	route.PageBuyerSetting:   "Buyer settings",
	route.PageBuyerProfile:   "Buyer profile",
	route.PageNotFound:       "Page not found",
	PageLoading:              "Loading",
	PageError:                "Something went wrong",
}

// ContentTemplateFor returns the content template for the given page.
// Unknown pages fall back to the not-found content.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return "not-found-content"
}

// layoutTemplateFor returns the outer template for a layout.
func layoutTemplateFor(l route.Layout) string {
	switch l {
	case route.LayoutAuth:
		return "layout-auth"
	case route.LayoutBare:
		return "layout-bare"
	default:
		return "layout-app"
	}
}

func titleFor(page string) string {
	if t, ok := pageTitles[page]; ok {
		return t
	}
	return "Marketplace"
}
