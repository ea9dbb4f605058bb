package api

import (
	"database/sql"
	"net/http"

	"github.com/jkovac/artshow/internal/importer"
	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/session"
	"github.com/jkovac/artshow/internal/settle"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, ldg *ledger.Service, sessions *session.Store) http.Handler {
	mux := http.NewServeMux()

	imp := importer.New(ldg, sessions)
	stl := settle.New(ldg)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Sessions: sessions}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{Ledger: ldg, Sessions: sessions}
	closingHandler := &ClosingHandler{Ledger: ldg}
	auctionHandler := &AuctionHandler{Ledger: ldg}
	importsHandler := &ImportsHandler{Importer: imp, Sessions: sessions}
	settlementHandler := &SettlementHandler{Settle: stl}
	attendeesHandler := &AttendeesHandler{Ledger: ldg, Importer: imp}
	currenciesHandler := &CurrenciesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)
	sessionMW := SessionMiddleware(sessions)
	requireAdmin := RequireGroup(model.GroupAdmin)

	// wrap chains auth then session middleware around a handler.
	wrap := func(h http.HandlerFunc) http.Handler {
		return authMW(sessionMW(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(requireAdmin(sessionMW(h)))
	}

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", wrap(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", wrap(authHandler.Logout))
	mux.Handle("GET /api/auth/session", wrap(authHandler.Session))

	// Operator accounts (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Items.
	mux.Handle("GET /api/items", wrap(itemsHandler.List))
	mux.Handle("POST /api/items", wrap(itemsHandler.Create))
	mux.Handle("GET /api/items/closable", wrap(itemsHandler.Closable))
	mux.Handle("GET /api/items/deliverable", wrap(itemsHandler.Deliverable))
	mux.Handle("GET /api/items/added", wrap(itemsHandler.Added))
	mux.Handle("DELETE /api/items/added", wrap(itemsHandler.ClearAdded))
	mux.Handle("GET /api/items/{code}", wrap(itemsHandler.Get))
	mux.Handle("PUT /api/items/{code}", wrap(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{code}", admin(itemsHandler.Delete))
	mux.Handle("GET /api/items/{code}/image", wrap(itemsHandler.GetImage))
	mux.Handle("PUT /api/items/{code}/image", wrap(itemsHandler.UploadImage))

	// Sale closing.
	mux.Handle("POST /api/items/{code}/close/unsold", wrap(closingHandler.CloseUnsold))
	mux.Handle("POST /api/items/{code}/close/sold", wrap(closingHandler.CloseSold))
	mux.Handle("POST /api/items/{code}/close/auction", wrap(closingHandler.CloseIntoAuction))

	// Live auction.
	mux.Handle("GET /api/auction/items", wrap(auctionHandler.List))
	mux.Handle("POST /api/auction/items/{code}", wrap(auctionHandler.Send))
	mux.Handle("GET /api/auction/current", wrap(auctionHandler.Current))
	mux.Handle("PUT /api/auction/current/amount", wrap(auctionHandler.UpdateAmount))
	mux.Handle("POST /api/auction/current/sell", wrap(auctionHandler.Sell))
	mux.Handle("POST /api/auction/current/sell-no-change", wrap(auctionHandler.SellNoChange))
	mux.Handle("DELETE /api/auction/current", wrap(auctionHandler.Clear))

	// Consignment import.
	mux.Handle("POST /api/imports/csv", wrap(importsHandler.ImportCSV))
	mux.Handle("POST /api/imports/text", wrap(importsHandler.ImportText))
	mux.Handle("POST /api/imports/apply", wrap(importsHandler.Apply))
	mux.Handle("DELETE /api/imports", wrap(importsHandler.Drop))

	// Settlement.
	mux.Handle("GET /api/settlement/drawer", wrap(settlementHandler.Drawer))
	mux.Handle("GET /api/settlement/charity", wrap(settlementHandler.PotentialCharity))
	mux.Handle("GET /api/settlement/badges/{badge}", wrap(settlementHandler.BadgeSummary))
	mux.Handle("POST /api/settlement/badges/{badge}", wrap(settlementHandler.Reconciliate))

	// Attendees.
	mux.Handle("GET /api/attendees", wrap(attendeesHandler.List))
	mux.Handle("POST /api/attendees/import", admin(attendeesHandler.ImportCSV))
	mux.Handle("GET /api/attendees/{badge}", wrap(attendeesHandler.Get))

	// Currencies.
	mux.Handle("GET /api/currencies", wrap(currenciesHandler.List))
	mux.Handle("PUT /api/currencies", admin(currenciesHandler.Upsert))
	mux.Handle("GET /api/currencies/convert", wrap(currenciesHandler.Convert))

	return mux
}
