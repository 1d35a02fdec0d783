package handlers

import "net/http"

// DashboardHandler serves the single-page dashboard shell. The page pulls
// everything else from the JSON API.
func DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(dashboardHTML))
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Spotify Dashboard</title>
<style>
	* { box-sizing: border-box; margin: 0; padding: 0; }
	body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; background: #121212; color: #eee; }
	header { display: flex; align-items: center; justify-content: space-between; padding: 16px 24px; background: #181818; }
	header h1 { font-size: 20px; color: #1db954; }
	main { max-width: 960px; margin: 0 auto; padding: 24px; }
	.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
	.card { background: #181818; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
	.card h2 { font-size: 15px; color: #b3b3b3; margin-bottom: 12px; text-transform: uppercase; letter-spacing: .05em; }
	ol { margin-left: 20px; }
	li { padding: 4px 0; font-size: 14px; }
	li small { color: #8a8a8a; }
	button { background: #1db954; border: 0; color: #fff; border-radius: 16px; padding: 6px 16px; cursor: pointer; margin-right: 6px; }
	button.secondary { background: #333; }
	a.login { background: #1db954; color: #fff; padding: 10px 24px; border-radius: 20px; text-decoration: none; }
	.bars { display: flex; align-items: flex-end; gap: 2px; height: 80px; }
	.bars div { flex: 1; background: #1db954; min-height: 1px; }
	#now-playing { font-size: 15px; }
	.muted { color: #8a8a8a; font-size: 13px; }
</style>
</head>
<body>
<header>
	<h1>Spotify Dashboard</h1>
	<div id="session"></div>
</header>
<main id="content"><p class="muted">Loading…</p></main>
<script>
async function getJSON(url) {
	const res = await fetch(url);
	if (!res.ok) throw new Error(url + ': ' + res.status);
	return res.json();
}

function el(html) {
	const t = document.createElement('template');
	t.innerHTML = html.trim();
	return t.content.firstChild;
}

function esc(s) {
	const d = document.createElement('div');
	d.textContent = s == null ? '' : s;
	return d.innerHTML;
}

async function control(action) {
	await fetch('/api/player/' + action, { method: 'POST' });
	loadPlayer();
}

async function loadPlayer() {
	const card = document.getElementById('now-playing');
	try {
		const p = await getJSON('/api/player');
		if (!p.playing) { card.innerHTML = '<p class="muted">Nothing playing right now.</p>'; return; }
		const item = p.state.item || {};
		const artists = (item.artists || []).map(a => a.name).join(', ');
		card.innerHTML = '<p><strong>' + esc(item.name) + '</strong> — ' + esc(artists) + '</p>';
	} catch (e) {
		card.innerHTML = '<p class="muted">Player unavailable.</p>';
	}
}

function activityBars(buckets, key) {
	const max = Math.max(1, ...buckets.map(b => b.count));
	return '<div class="bars">' + buckets.map(b =>
		'<div style="height:' + Math.round(b.count / max * 100) + '%" title="' + esc(String(b[key])) + ': ' + b.count + '"></div>'
	).join('') + '</div>';
}

async function render() {
	const status = await getJSON('/api/auth/status');
	const content = document.getElementById('content');
	const sessionBox = document.getElementById('session');

	if (!status.authenticated) {
		sessionBox.innerHTML = '';
		content.innerHTML = '';
		content.appendChild(el('<div class="card" style="text-align:center; padding:48px">' +
			'<p style="margin-bottom:16px">Sign in with Spotify to see your listening stats.</p>' +
			'<a class="login" href="/login">Log in with Spotify</a></div>'));
		return;
	}

	sessionBox.innerHTML = '<form method="POST" action="/logout" style="display:inline">' +
		'<button class="secondary">Log out</button></form>';

	content.innerHTML =
		'<div class="card"><h2>Now playing</h2><div id="now-playing"></div>' +
		'<p style="margin-top:12px">' +
		'<button onclick="control(\'previous\')">⏮</button>' +
		'<button onclick="control(\'play\')">▶</button>' +
		'<button onclick="control(\'pause\')">⏸</button>' +
		'<button onclick="control(\'next\')">⏭</button></p></div>' +
		'<div class="grid">' +
		'<div class="card"><h2>Top artists</h2><ol id="top-artists"></ol></div>' +
		'<div class="card"><h2>Top tracks</h2><ol id="top-tracks"></ol></div>' +
		'</div>' +
		'<div class="card"><h2>Listening activity by hour</h2><div id="activity"></div></div>' +
		'<div class="card"><h2>Recently played</h2><ol id="recent"></ol></div>';

	loadPlayer();

	getJSON('/api/me').then(me => {
		sessionBox.insertBefore(el('<span class="muted" style="margin-right:12px">' +
			esc(me.display_name || me.id) + '</span>'), sessionBox.firstChild);
	}).catch(() => {});

	getJSON('/api/top/artists?limit=10').then(page => {
		document.getElementById('top-artists').innerHTML = (page.items || []).map(a =>
			'<li>' + esc(a.name) + ' <small>' + esc((a.genres || []).slice(0, 2).join(', ')) + '</small></li>').join('');
	}).catch(() => {});

	getJSON('/api/top/tracks?limit=10').then(page => {
		document.getElementById('top-tracks').innerHTML = (page.items || []).map(t =>
			'<li>' + esc(t.name) + ' <small>' + esc((t.artists || []).map(a => a.name).join(', ')) + '</small></li>').join('');
	}).catch(() => {});

	getJSON('/api/activity').then(act => {
		document.getElementById('activity').innerHTML = activityBars(act.hourly, 'hour');
	}).catch(() => {});

	getJSON('/api/recently-played?limit=15').then(rp => {
		document.getElementById('recent').innerHTML = (rp.items || []).map(i =>
			'<li>' + esc(i.track.name) + ' <small>' + esc((i.track.artists || []).map(a => a.name).join(', ')) + '</small></li>').join('');
	}).catch(() => {});
}

render();
setInterval(loadPlayer, 15000);
</script>
</body>
</html>`
