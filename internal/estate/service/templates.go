package service

import (
	"bytes"
	"html/template"
	"time"
)

var (
	otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<p>Hi {{.Username}},</p>
<p>Your verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Code}}</p>
<p>The code is valid for {{.Minutes}} minutes. If you did not request it you can ignore this email.</p>
</body></html>`))

	resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<p>Hi {{.Username}},</p>
<p>We received a request to reset your password. Use the link below within {{.Minutes}} minutes:</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If you did not request a reset you can ignore this email.</p>
</body></html>`))
)

const (
	otpSubject   = "Your verification code"
	resetSubject = "Reset your password"
)

func renderOtpEmail(username, code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Username, Code string
		Minutes        int
	}{username, code, int(ttl.Minutes())})
	return buf.String(), err
}

func renderResetEmail(username, link string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Username, Link string
		Minutes        int
	}{username, link, int(ttl.Minutes())})
	return buf.String(), err
}
