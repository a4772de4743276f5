// Package notify delivers best-effort task-assignment notifications.
//
// A Notifier is a single transport (SMTP, AMQP or log-only). The Dispatcher
// runs notifiers on a bounded queue and worker pool so that callers never
// wait on, or observe the failure of, a delivery attempt. Deliveries are
// attempted once: there is no retry, confirmation or dead-lettering.
package notify
