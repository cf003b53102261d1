package playground

import (
	"bytes"
	"net/http"

	"github.com/vango-dev/vango-transition/pkg/render"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// utilityCSS implements the utility classes the demo scenario uses.
const utilityCSS = `
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1f2937; }
#app { position: relative; min-height: 12rem; }
#log { font-size: 12px; background: #f3f4f6; padding: 1rem; max-height: 16rem; overflow: auto; }
.dialog { position: relative; }
.backdrop { position: absolute; inset: 0; background: rgba(17, 24, 39, 0.4); border-radius: 8px; }
.panel { position: relative; margin: 2rem; padding: 1.5rem; background: #fff; border-radius: 8px; }
.shadow { box-shadow: 0 10px 25px rgba(0, 0, 0, 0.2); }
.transition { transition-property: opacity, transform; }
.ease-in { transition-timing-function: cubic-bezier(0.4, 0, 1, 1); }
.ease-out { transition-timing-function: cubic-bezier(0, 0, 0.2, 1); }
.duration-200 { transition-duration: 200ms; }
.duration-300 { transition-duration: 300ms; }
.opacity-0 { opacity: 0; }
.opacity-100 { opacity: 1; }
.translate-y-0 { transform: translateY(0); }
.translate-y-4 { transform: translateY(1rem); }
`

// clientScript applies patches and reports transition events.
const clientScript = `
(function() {
    'use strict';

    var app = document.getElementById('app');
    var log = document.getElementById('log');
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');

    function line(text) {
        log.textContent += text + '\n';
        log.scrollTop = log.scrollHeight;
    }

    function byHID(hid) {
        return app.querySelector('[data-hid="' + hid + '"]');
    }

    function fromHTML(html) {
        var t = document.createElement('template');
        t.innerHTML = html;
        return t.content.firstChild;
    }

    function apply(p) {
        var el = p.hid === 'root' ? null : byHID(p.hid);
        switch (p.op) {
            case 'ReplaceNode':
                if (p.hid === 'root') { app.innerHTML = p.html || ''; }
                else if (el) { el.outerHTML = p.html || ''; }
                break;
            case 'RemoveNode':
                if (el) { el.remove(); }
                break;
            case 'InsertNode':
                var parent = byHID(p.parent) || app;
                parent.insertBefore(fromHTML(p.html || ''), parent.childNodes[p.index || 0] || null);
                break;
            case 'SetAttr':
                if (el) { el.setAttribute(p.key, p.value || ''); }
                break;
            case 'RemoveAttr':
                if (el) { el.removeAttribute(p.key); }
                break;
            case 'SetText':
                if (el) { el.textContent = p.value || ''; }
                break;
        }
    }

    ws.onmessage = function(e) {
        var msg = JSON.parse(e.data);
        switch (msg.type) {
            case 'hello':
                line('session ' + msg.id);
                break;
            case 'patches':
                msg.patches.forEach(apply);
                // Read layout so the browser commits the from classes.
                void app.offsetHeight;
                break;
            case 'run':
                var r = msg.run;
                line('#' + r.seq + ' ' + r.node + ' ' + r.direction + (r.cancelled ? ' cancelled' : ' done') + ' after ' + r.elapsedMs + 'ms');
                break;
            case 'error':
                line('error: ' + msg.error);
                break;
        }
    };

    ['transitionrun', 'transitionend', 'transitioncancel'].forEach(function(type) {
        app.addEventListener(type, function(e) {
            var hid = e.target.getAttribute && e.target.getAttribute('data-hid');
            if (hid && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({type: 'event', hid: hid, event: type}));
            }
        }, true);
    });

    document.getElementById('toggle').addEventListener('click', function() {
        ws.send(JSON.stringify({type: 'toggle'}));
    });
})();
`

func (s *Server) page() *vdom.VNode {
	title := s.config.Scenario.Name
	return vdom.El("main",
		vdom.H2("Transition playground: "+title),
		vdom.If(s.config.Scenario.Description != "", vdom.P(s.config.Scenario.Description)),
		vdom.Button(vdom.ID("toggle"), vdom.A("type", "button"), "Toggle"),
		vdom.Div(vdom.ID("app")),
		vdom.El("pre", vdom.ID("log")),
	)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := render.NewRenderer(render.RendererConfig{}).RenderPage(&buf, render.PageData{
		Title:  "vango-transition playground",
		Body:   s.page(),
		Styles: []string{utilityCSS},
		Script: clientScript,
	})
	if err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
