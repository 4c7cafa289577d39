package booking

import (
	"fmt"
	"html/template"
	"io"
)

// WriteRedirectPage renders the interstitial that forwards the visitor
// to the agency. GET links redirect by script, POST links auto-submit a
// hidden form; the tracking pixel fires before either.
func WriteRedirectPage(w io.Writer, link Link) error {
	if err := redirectTemplate.Execute(w, link); err != nil {
		return fmt.Errorf("render redirect page: %w", err)
	}

	return nil
}

var redirectTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Redirecting to Booking Agency</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            margin: 0;
            display: flex;
            justify-content: center;
            align-items: center;
            min-height: 100vh;
            color: white;
        }
        .redirect-container {
            text-align: center;
            background: rgba(255, 255, 255, 0.1);
            padding: 3rem;
            border-radius: 16px;
            max-width: 500px;
            width: 90%;
        }
        .spinner {
            border: 3px solid rgba(255, 255, 255, 0.3);
            border-top: 3px solid white;
            border-radius: 50%;
            width: 40px;
            height: 40px;
            animation: spin 1s linear infinite;
            margin: 0 auto 1rem;
        }
        @keyframes spin {
            0% { transform: rotate(0deg); }
            100% { transform: rotate(360deg); }
        }
        #redirect_params_form { display: none; }
    </style>
</head>
<body>
    <div class="redirect-container">
        <div class="spinner"></div>
        <div class="message">Redirecting you to the booking agency...</div>
        <img width="0" height="0" id="pixel" src="//yasen.aviasales.com/adaptors/pixel_click.png?click_id={{.ClickID}}&gate_id={{.GateID}}">
{{- if eq .Method "POST"}}
        <form id="redirect_params_form" method="POST" action="{{.URL}}">
{{- range $key, $value := .Params}}
            <input type="hidden" name="{{$key}}" value="{{$value}}">
{{- end}}
        </form>
        <script>
            var redirect = function(timeout){
                setTimeout(function(){
                    document.getElementById('redirect_params_form').submit();
                }, timeout);
            }
        </script>
{{- else}}
        <script>
            var redirect = function(timeout){
                setTimeout(function(){
                    window.location.href = {{.URL}};
                }, timeout);
            }
        </script>
{{- end}}
    </div>
    <script>
        var timeout = 3000;
        var pixel = document.getElementById('pixel');
        pixel.addEventListener('load', function() {
            redirect(timeout);
        }, false);
        setTimeout(function(){ redirect(0); }, 5000);
    </script>
</body>
</html>
`))
