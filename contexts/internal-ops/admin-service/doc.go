// Package adminservice owns the internal-ops moderation surface: operational
// reports over board entity counts, user bans, and the audit trail of admin
// actions.
package adminservice
