package activities

import "context"

type ReportFailureRequest struct {
	ChatID  int64
	Message string
}

func (a *Activities) ReportFailure(ctx context.Context, req ReportFailureRequest) error {
	return a.TelegramClient.SendMessage(ctx, req.ChatID, req.Message)
}
