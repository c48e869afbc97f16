package server

const viewerTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>classdiag - Class Diagram</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      flex-direction: column;
      align-items: center;
      min-height: 100vh;
      padding: 1rem;
      background-color: #f8f9fa;
      color: #212529;
      transition: background-color 0.3s, color 0.3s;
    }

    @media (prefers-color-scheme: dark) {
      body {
        background-color: #1a1a2e;
        color: #e0e0e0;
      }
      .controls button, .controls select, textarea {
        background-color: #2d2d44;
        color: #e0e0e0;
        border-color: #444;
      }
      .controls button:hover {
        background-color: #3d3d5c;
      }
    }

    h1 {
      margin: 1rem 0;
      font-size: 1.4rem;
      font-weight: 600;
    }

    .workspace {
      display: grid;
      grid-template-columns: minmax(280px, 1fr) 2fr;
      gap: 1rem;
      width: 100%;
      flex: 1;
    }

    textarea {
      width: 100%;
      min-height: 60vh;
      padding: 0.6rem;
      font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
      font-size: 0.85rem;
      border: 1px solid #ccc;
      border-radius: 6px;
      resize: vertical;
    }

    .controls {
      display: flex;
      gap: 0.5rem;
      margin-bottom: 1rem;
      flex-wrap: wrap;
      justify-content: center;
    }

    .controls button, .controls select {
      padding: 0.4rem 0.9rem;
      font-size: 0.9rem;
      border: 1px solid #ccc;
      border-radius: 6px;
      background-color: #ffffff;
      color: #212529;
      cursor: pointer;
      transition: background-color 0.15s;
    }

    .controls button:hover {
      background-color: #e9ecef;
    }

    .stats {
      font-size: 0.85rem;
      margin-bottom: 0.5rem;
      min-height: 1.2em;
    }

    .error { color: #c0392b; }

    .diagram-viewport {
      width: 100%;
      overflow: auto;
      display: flex;
      justify-content: center;
      align-items: flex-start;
      padding: 1rem;
    }

    .diagram-container {
      width: 100%;
      transform-origin: top center;
      transition: transform 0.2s ease;
    }

    .mermaid svg { font-size: 18px !important; }
    .mermaid svg .classTitleText { font-size: 24px !important; }
    .mermaid svg .nodeLabel { font-size: 16px !important; }
  </style>
</head>
<body>
  <h1>classdiag - Class Diagram</h1>

  <div class="controls">
    <select id="language" title="Language">
      {{range .Languages}}<option value="{{.}}"{{if eq . $.DefaultLanguage}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button id="generate" title="Generate Diagram">Generate</button>
    <button id="zoom-in" title="Zoom In">+ Zoom In</button>
    <button id="zoom-out" title="Zoom Out">- Zoom Out</button>
    <button id="zoom-reset" title="Reset Zoom">Reset</button>
    <button id="copy-src" title="Copy Mermaid Source">Copy Mermaid Source</button>
  </div>

  <div class="workspace">
    <textarea id="source" spellcheck="false" placeholder="Paste source code here"></textarea>
    <div>
      <div class="stats" id="stats"></div>
      <div class="diagram-viewport">
        <div class="diagram-container" id="diagram-container"></div>
      </div>
    </div>
  </div>

  <script src="https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"></script>
  <script>
    mermaid.initialize({
      startOnLoad: false,
      theme: 'base',
      themeVariables: {
        primaryColor: '#ffffff',
        primaryBorderColor: '#cccccc',
        primaryTextColor: '#000000',
        lineColor: '#555555',
        fontSize: '16px'
      }
    });

    (function() {
      var maxBytes = {{.MaxBodyBytes}};
      var current = '';
      var renderCount = 0;
      var scale = 1;
      var step = 0.15;
      var minScale = 0.1;
      var maxScale = 10;
      var container = document.getElementById('diagram-container');
      var stats = document.getElementById('stats');

      function applyZoom() {
        container.style.transform = 'scale(' + scale + ')';
      }

      function showError(msg) {
        stats.className = 'stats error';
        stats.textContent = msg;
      }

      function showStats(s) {
        stats.className = 'stats';
        stats.textContent = s.classes + ' classes, ' + s.interfaces + ' interfaces, ' +
          s.records + ' records, ' + s.structs + ' structs, ' + s.members + ' members';
      }

      function generate() {
        var source = document.getElementById('source').value;
        var language = document.getElementById('language').value;
        if (source.length > maxBytes) {
          showError('Source is larger than the server limit.');
          return;
        }
        fetch('/api/diagram', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ language: language, files: [{ name: '', content: source }] })
        }).then(function(resp) {
          return resp.json().then(function(body) { return { ok: resp.ok, body: body }; });
        }).then(function(res) {
          if (!res.ok) {
            showError(res.body.error || 'Request failed');
            return;
          }
          current = res.body.mermaid;
          showStats(res.body.stats);
          if (!current) {
            container.innerHTML = '';
            return;
          }
          renderCount++;
          mermaid.render('diagram-' + renderCount, current).then(function(out) {
            container.innerHTML = out.svg;
          }).catch(function(err) {
            showError(String(err));
          });
        }).catch(function(err) {
          showError(String(err));
        });
      }

      applyZoom();

      document.getElementById('generate').addEventListener('click', generate);

      document.getElementById('zoom-in').addEventListener('click', function() {
        scale = Math.min(maxScale, scale + step);
        applyZoom();
      });

      document.getElementById('zoom-out').addEventListener('click', function() {
        scale = Math.max(minScale, scale - step);
        applyZoom();
      });

      document.getElementById('zoom-reset').addEventListener('click', function() {
        scale = 1;
        applyZoom();
      });

      document.getElementById('copy-src').addEventListener('click', function() {
        navigator.clipboard.writeText(current).then(function() {
          var btn = document.getElementById('copy-src');
          var orig = btn.textContent;
          btn.textContent = 'Copied!';
          setTimeout(function() { btn.textContent = orig; }, 1500);
        });
      });
    })();
  </script>
</body>
</html>
`
