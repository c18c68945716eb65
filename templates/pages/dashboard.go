package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"student_dashboard_go/middleware"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/templates/components"

	"github.com/a-h/templ"
)

// pollScript keeps the page in sync with /api/snapshot. Notification messages
// arrive sanitized.
const pollScript = `(function(){
var every=%d;
var box=document.getElementById('notifications');
function toast(n){
var d=document.createElement('div');d.className='notification notification-'+n.severity;d.dataset.id=n.id;
var i=document.createElement('i');i.className='fas fa-'+n.icon;d.appendChild(i);
var m=document.createElement('span');m.innerHTML=n.message;d.appendChild(m);
var f=document.createElement('form');f.method='post';f.action='/api/notifications/'+encodeURIComponent(n.id)+'/dismiss';
var b=document.createElement('button');b.type='submit';b.className='dismiss';b.title=box.dataset.dismiss;b.textContent='\u00d7';
f.appendChild(b);d.appendChild(f);return d}
function sync(list){
var seen={};
Array.prototype.forEach.call(box.querySelectorAll('.notification'),function(el){seen[el.dataset.id]=el});
var keep={};
list.forEach(function(n){keep[n.id]=true;if(!seen[n.id]){box.appendChild(toast(n))}});
Object.keys(seen).forEach(function(id){if(!keep[id]){seen[id].remove()}})}
box.addEventListener('submit',function(e){e.preventDefault();var f=e.target;var el=f.closest('.notification');
fetch(f.action,{method:'POST'}).then(function(){if(el){el.remove()}}).catch(function(){})});
function tick(){fetch('/api/snapshot').then(function(r){return r.json()}).then(function(s){
(s.counters||[]).forEach(function(c){var el=document.getElementById(c.id);if(el){el.textContent=c.text}});
(s.charts||[]).forEach(function(c){var img=document.getElementById(c.anchor);if(img&&c.rendered&&img.dataset.version!==c.version){img.dataset.version=c.version;img.src='/charts/'+c.slot+'?v='+c.version}});
sync(s.notifications||[]);
var live=document.getElementById('liveState');if(live){live.dataset.connected=s.connected}
}).catch(function(){})}
setInterval(tick,every);
})();`

const pageStyle = `body{font-family:sans-serif;margin:2rem;background:#f7f7f9}
.counters,.charts{display:grid;grid-template-columns:repeat(auto-fit,minmax(220px,1fr));gap:1rem;margin-bottom:1.5rem}
.card{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.counter{font-size:2rem;font-weight:600}
.charts img{width:100%}
.notification{display:flex;gap:.5rem;align-items:center;padding:.5rem 1rem;border-radius:6px;margin-bottom:.5rem}
.notification form{margin-left:auto}.dismiss{border:0;background:none;cursor:pointer;font-size:1.1rem}
.notification-success{background:#d1fae5}.notification-info{background:#dbeafe}
.notification-warning{background:#fef3c7}.notification-danger{background:#fee2e2}`

// Dashboard renders the preview page of the dashboard client
func Dashboard(v DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		nonce := templ.EscapeString(middleware.GetNonce(ctx))
		t := func(key string) string { return templ.EscapeString(i18n.T(ctx, key)) }

		var b strings.Builder
		fmt.Fprintf(&b, `<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8"><title>%s</title>`,
			templ.EscapeString(i18n.GetLocale(ctx)), t("page.title"))
		fmt.Fprintf(&b, `<style nonce="%s">`, nonce)
		b.WriteString(pageStyle)
		b.WriteString(`</style></head><body>`)

		liveKey := "page.offline"
		if v.Connected {
			liveKey = "page.live"
		}
		fmt.Fprintf(&b, `<header><h1>%s</h1><span id="liveState" data-connected="%t">%s</span> `, t("page.title"), v.Connected, t(liveKey))
		updated := t("page.never")
		if !v.UpdatedAt.IsZero() {
			updated = templ.EscapeString(v.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(&b, `<small>%s: %s</small> `, t("page.updated"), updated)
		fmt.Fprintf(&b, `<form method="post" action="/api/refresh"><button type="submit">%s</button></form> `, t("page.refresh"))
		fmt.Fprintf(&b, `<a href="/export/dashboard">%s</a></header>`, t("page.export"))

		fmt.Fprintf(&b, `<section id="notifications" data-dismiss="%s">`, t("page.dismiss"))
		for _, n := range v.Notifications {
			// Message is sanitized by the handler
			fmt.Fprintf(&b, `<div class="notification notification-%s" data-id="%s"><i class="fas fa-%s"></i> <span>%s</span>`,
				templ.EscapeString(n.Severity), templ.EscapeString(n.ID), templ.EscapeString(n.Icon), n.Message)
			fmt.Fprintf(&b, `<form method="post" action="/api/notifications/%s/dismiss"><button type="submit" class="dismiss" title="%s">&times;</button></form></div>`,
				templ.EscapeString(url.PathEscape(n.ID)), t("page.dismiss"))
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="counters">`)
		for _, c := range v.Counters {
			fmt.Fprintf(&b, `<div class="card"><div>%s</div><div class="counter" id="%s">%s</div></div>`,
				templ.EscapeString(c.Label), templ.EscapeString(c.ID), templ.EscapeString(c.Text))
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="charts">`)
		for _, c := range v.Charts {
			fmt.Fprintf(&b, `<div class="card"><h3>%s</h3>`, templ.EscapeString(c.Title))
			if c.Rendered {
				fmt.Fprintf(&b, `<img id="%s" data-version="%s" src="/charts/%s?v=%s" alt="%s">`,
					templ.EscapeString(c.Anchor), templ.EscapeString(c.Version), templ.EscapeString(c.Slot),
					templ.EscapeString(c.Version), templ.EscapeString(c.Title))
			} else {
				fmt.Fprintf(&b, `<img id="%s" data-version="" alt="%s"><p>%s</p>`,
					templ.EscapeString(c.Anchor), templ.EscapeString(c.Title), t("page.no_chart"))
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</section>`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := components.JSONScript("dashboard-state", v).Render(ctx, w); err != nil {
			return err
		}

		poll := v.PollEvery.Milliseconds()
		if poll <= 0 {
			poll = 5000
		}
		_, err := fmt.Fprintf(w, `<script nonce="%s">%s</script></body></html>`, nonce, fmt.Sprintf(pollScript, poll))
		return err
	})
}
