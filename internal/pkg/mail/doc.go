// Package mail sends email and renders the HTML templates used for account
// notifications.
//
// Templates live in templates/ and are embedded into the binary. A template
// named "user-activation-mail" is stored as templates/user-activation-mail.html.
package mail
