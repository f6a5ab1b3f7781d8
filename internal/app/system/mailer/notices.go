package mailer

import (
	"context"

	"github.com/dalemusser/facetoface/internal/app/system/approvals"
)

// Notices sends request decision e-mails. It implements approvals.Notifier.
type Notices struct {
	mailer *Mailer
}

func NewNotices(m *Mailer) *Notices {
	return &Notices{mailer: m}
}

// Notify e-mails the requester named in n.
func (ns *Notices) Notify(ctx context.Context, n approvals.Notice) error {
	e := BuildNoticeEmail(NoticeData(ns.mailer.Config().SiteName, n))
	e.To = n.Email
	e.ToName = n.Name
	return ns.mailer.Send(ctx, e)
}
