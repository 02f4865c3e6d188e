package httpapi

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"weather-dashboard/internal/dashboard"
)

// registerPages wires the server-rendered dashboard shell, the data page and
// the live tile fragment.
func registerPages(app *fiber.App, sink *dashboard.TemplateSink, opts Options) {
	app.Get("/", func(c *fiber.Ctx) error {
		return renderPage(c, dashboardPageTmpl, fiber.Map{
			"RefreshSeconds": opts.RefreshSeconds,
		})
	})

	app.Get("/data", func(c *fiber.Ctx) error {
		return renderPage(c, dataPageTmpl, fiber.Map{
			"DefaultMetric": string(opts.DefaultMetric),
		})
	})

	app.Get("/fragments/tiles", func(c *fiber.Ctx) error {
		c.Set("X-Last-Updated", sink.LastUpdated())
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(string(sink.Fragment()))
	})
}

func renderPage(c *fiber.Ctx, tmpl *template.Template, data fiber.Map) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

var dashboardPageTmpl = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Live Conditions</title>
  <style>
    body { margin: 0; font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif; background: #f4f6f8; color: #1b1b1b; }
    header { padding: 20px 28px; background: #fff; border-bottom: 1px solid #e2e6ea; display: flex; justify-content: space-between; align-items: baseline; }
    h1 { margin: 0; font-size: 20px; }
    .updated { color: #6b6b6b; font-size: 12px; }
    main { padding: 24px 28px; }
    .tile-grid { display: grid; gap: 14px; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); }
    .tile { background: #fff; border: 1px solid #e2e6ea; border-radius: 10px; padding: 14px 16px; }
    .tile header { padding: 0; border: none; background: none; display: flex; justify-content: space-between; }
    .tile h3 { margin: 0; font-size: 16px; }
    .tile dl { margin: 10px 0 0; font-size: 13px; }
    .tile dl div { display: flex; justify-content: space-between; padding: 3px 0; }
    .tile dt { color: #6b6b6b; }
    .tile dd { margin: 0; }
    .tile footer { margin-top: 8px; font-size: 11px; color: #2e7d32; }
    .live-dot { display: inline-block; width: 7px; height: 7px; border-radius: 50%; background: #2e7d32; }
    .badge { padding: 2px 8px; border-radius: 999px; font-size: 11px; color: #fff; }
    .badge.aqi.good { background: #2e7d32; }
    .badge.aqi.moderate { background: #f9a825; }
    .badge.aqi.unhealthy-sensitive { background: #ef6c00; }
    .badge.aqi.unhealthy { background: #c62828; }
    .badge.aqi.hazardous { background: #6a1b9a; }
    .badge.rain.low { background: #90a4ae; }
    .badge.rain.medium { background: #1976d2; }
    .badge.rain.high { background: #283593; }
    .notice { padding: 14px 16px; border-radius: 10px; font-size: 14px; }
    .notice.info { background: #e3f2fd; border: 1px solid #90caf9; }
    .notice.error { background: #ffebee; border: 1px solid #ef9a9a; }
    .notice .dismiss { float: right; border: none; background: none; cursor: pointer; font-size: 14px; }
    .loading { color: #6b6b6b; font-size: 13px; margin-bottom: 10px; }
  </style>
</head>
<body>
  <header>
    <h1>Live Conditions</h1>
    <span class="updated" id="updated"></span>
  </header>
  <main id="tiles"></main>
  <script>
    const refreshMs = {{ .RefreshSeconds }} * 1000;
    async function refreshTiles() {
      try {
        const resp = await fetch("/fragments/tiles");
        document.getElementById("tiles").innerHTML = await resp.text();
        const updated = resp.headers.get("X-Last-Updated");
        if (updated) {
          document.getElementById("updated").textContent = "last updated " + updated;
        }
      } catch (e) {
        console.error("tile refresh failed", e);
      }
    }
    document.addEventListener("click", (e) => {
      if (e.target.classList.contains("dismiss")) {
        e.target.closest(".notice").remove();
      }
    });
    refreshTiles();
    setInterval(refreshTiles, refreshMs);
  </script>
</body>
</html>`))

var dataPageTmpl = template.Must(template.New("data").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Historical Data</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
  <style>
    body { margin: 0; font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif; background: #f4f6f8; color: #1b1b1b; }
    header { padding: 20px 28px; background: #fff; border-bottom: 1px solid #e2e6ea; }
    h1 { margin: 0 0 12px; font-size: 20px; }
    .filters { display: flex; flex-wrap: wrap; gap: 10px; font-size: 13px; }
    .filters input, .filters select { padding: 5px 8px; border: 1px solid #cfd6dc; border-radius: 6px; }
    .filters button { padding: 6px 12px; border: none; border-radius: 6px; background: #1565c0; color: #fff; cursor: pointer; }
    main { padding: 24px 28px; display: grid; gap: 16px; }
    .panel { background: #fff; border: 1px solid #e2e6ea; border-radius: 10px; padding: 16px; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #eef1f3; }
  </style>
</head>
<body>
  <header>
    <h1>Historical Data</h1>
    <form class="filters" id="filters">
      <input name="city" placeholder="City (blank = all)" />
      <select name="metric">
        <option value="temperature">Temperature</option>
        <option value="humidity">Humidity</option>
        <option value="aqi">AQI</option>
        <option value="rain_probability">Rain Probability</option>
        <option value="rain_mm">Rainfall</option>
      </select>
      <input name="hours" type="number" min="1" placeholder="Hours (default 24)" />
      <input name="start" type="date" />
      <input name="end" type="date" />
      <button type="submit">Apply</button>
    </form>
  </header>
  <main>
    <div class="panel"><canvas id="chart" height="110"></canvas></div>
    <div class="panel">
      <table>
        <thead><tr><th>City</th><th>Low</th><th>High</th></tr></thead>
        <tbody id="summary"></tbody>
      </table>
    </div>
  </main>
  <script>
    const form = document.getElementById("filters");
    form.metric.value = {{ .DefaultMetric }};
    let chart;
    async function load() {
      const params = new URLSearchParams();
      for (const field of ["city", "metric", "hours", "start", "end"]) {
        if (form[field].value) params.set(field, form[field].value);
      }
      const resp = await fetch("/api/history?" + params.toString());
      const body = await resp.json();
      if (chart) chart.destroy();
      chart = new Chart(document.getElementById("chart"), {
        type: "line",
        data: body.chart,
        options: { scales: { y: { title: { display: true, text: body.label } } } }
      });
      document.getElementById("summary").innerHTML = body.summary
        .map(s => "<tr><td>" + s.city + "</td><td>" + s.low + "</td><td>" + s.high + "</td></tr>")
        .join("");
    }
    form.addEventListener("submit", (e) => { e.preventDefault(); load(); });
    load();
  </script>
</body>
</html>`))
