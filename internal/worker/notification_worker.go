package worker

import (
	"github.com/spec-kit/helpdesk-sla/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// Handlers run synchronously on the publishing goroutine, so escalations
// raised by the sweeper are delivered from the sweeper's tick.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
