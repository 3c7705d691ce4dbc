package api

// Command names dispatched through the invocation adapter. The catalog is
// shared between the client and the local daemon.
type Command string

const (
	CmdAuthLogin       Command = "auth.login"
	CmdAuthLogout      Command = "auth.logout"
	CmdAuthRefresh     Command = "auth.refresh"
	CmdAuthValidate    Command = "auth.validate"
	CmdSystemHealth    Command = "system.health"
	CmdChatSessions    Command = "chat.sessions"
	CmdChatCreate      Command = "chat.create"
	CmdChatSend        Command = "chat.send"
	CmdChatRespond     Command = "chat.respond"
	CmdChatMessages    Command = "chat.messages"
	CmdDocumentsList   Command = "documents.list"
	CmdDocumentsUpload Command = "documents.upload"
	CmdDocumentsGet    Command = "documents.get"
	CmdDocumentsDelete Command = "documents.delete"
	CmdResearchSearch  Command = "research.search"
	CmdAnalysisAnalyze Command = "analysis.analyze"
)

// Commands returns the full catalog.
func Commands() []Command {
	return []Command{
		CmdAuthLogin, CmdAuthLogout, CmdAuthRefresh, CmdAuthValidate,
		CmdSystemHealth,
		CmdChatSessions, CmdChatCreate, CmdChatSend, CmdChatRespond, CmdChatMessages,
		CmdDocumentsList, CmdDocumentsUpload, CmdDocumentsGet, CmdDocumentsDelete,
		CmdResearchSearch, CmdAnalysisAnalyze,
	}
}
