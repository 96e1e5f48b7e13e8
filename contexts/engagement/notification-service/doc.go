// Package notificationservice owns the engagement context's notification
// store and the event dispatcher that turns domain outcomes into persisted
// notifications plus best-effort live pushes. Persistence always precedes the
// live push, so a dropped connection never loses a notification.
package notificationservice
