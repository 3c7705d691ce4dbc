package bridge

import (
	"net/http"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// route maps one command onto the HTTP fallback surface. Paths are relative
// to the executor's API root.
type route struct {
	method string
	path   string
}

var commandRoutes = map[api.Command]route{
	api.CmdAuthLogin:       {http.MethodPost, "/auth/login"},
	api.CmdAuthLogout:      {http.MethodPost, "/auth/logout"},
	api.CmdAuthRefresh:     {http.MethodPost, "/auth/refresh"},
	api.CmdAuthValidate:    {http.MethodPost, "/auth/validate"},
	api.CmdSystemHealth:    {http.MethodGet, "/system/health"},
	api.CmdChatSessions:    {http.MethodGet, "/chat/sessions"},
	api.CmdChatCreate:      {http.MethodPost, "/chat/sessions"},
	api.CmdChatSend:        {http.MethodPost, "/chat/messages"},
	api.CmdChatRespond:     {http.MethodPost, "/chat/respond"},
	api.CmdChatMessages:    {http.MethodGet, "/chat/messages"},
	api.CmdDocumentsList:   {http.MethodGet, "/documents"},
	api.CmdDocumentsUpload: {http.MethodPost, "/documents"},
	api.CmdDocumentsGet:    {http.MethodGet, "/documents/get"},
	api.CmdDocumentsDelete: {http.MethodDelete, "/documents"},
	api.CmdResearchSearch:  {http.MethodPost, "/research/search"},
	api.CmdAnalysisAnalyze: {http.MethodPost, "/analysis/analyze"},
}
