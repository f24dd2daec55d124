package handler

import "fmt"

// Static informational pages for terminal redirect outcomes. Content is
// cosmetic; the contract is the status code and that no scan is recorded.

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: -apple-system, sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; background: #f5f5f5; color: #333; }
.card { background: #fff; border-radius: 12px; padding: 48px; max-width: 420px; text-align: center; box-shadow: 0 2px 8px rgba(0,0,0,.08); }
h1 { font-size: 20px; margin: 0 0 12px; }
p { margin: 0; color: #666; line-height: 1.5; }
</style>
</head>
<body>
<div class="card">
<h1>%s</h1>
<p>%s</p>
</div>
</body>
</html>
`

func renderPage(title, heading, message string) string {
	return fmt.Sprintf(pageTemplate, title, heading, message)
}

var (
	pageNotFound = renderPage("Not Found", "QR code not found",
		"This link doesn't match any QR code. It may have been mistyped or never existed.")
	pageDeleted = renderPage("Gone", "QR code deleted",
		"This QR code has been deleted by its owner and is no longer available.")
	pageNotYetActive = renderPage("Not Yet Active", "QR code not active yet",
		"This QR code is scheduled to go live at a later time. Please check back.")
	pageExpired = renderPage("Expired", "QR code expired",
		"This QR code's active period has ended.")
	pageLimitReached = renderPage("Limit Reached", "Scan limit reached",
		"This QR code has reached its maximum number of scans.")
	pageInactive = renderPage("Inactive", "QR code inactive",
		"This QR code has been paused by its owner.")
	pageError = renderPage("Error", "Something went wrong",
		"We couldn't process this QR code right now. Please try again.")
)
