package notification

import "html/template"

type emailData struct {
	SiteURL      string
	Headline     string
	Image        string
	TrackingCode string
	TrackingURL  string
	Description  string
	Origin       string
	Destination  string
	Driver       string
	Vehicle      string
}

var emailTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="pt-br">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="width: 100%; background-color: #f4f4f4; font-family: Arial, sans-serif;">
    <center style="width: 100%; background-color: #f4f4f4; padding: 20px 0;">
        <table style="width: 100%; max-width: 600px; background-color: #ffffff; border-radius: 8px;">
            <tr>
                <td style="padding: 20px 0; text-align: center;">
                    <img src="{{.SiteURL}}/images/logo.png" style="max-width: 180px;" alt="Logo">
                </td>
            </tr>
            <tr>
                <td><img src="{{.SiteURL}}{{.Image}}" style="max-width: 100%;" alt="Status da entrega"></td>
            </tr>
            <tr>
                <td style="padding: 30px 40px;">
                    <h1 style="text-align: center; color: #333; font-size: 24px;">{{.Headline}}</h1>
                    <p style="font-size: 16px; color: #555; line-height: 1.5;">
                        Abaixo estão os detalhes do seu pedido. Você pode acompanhar o progresso a qualquer momento pelo link de rastreamento.
                    </p>
                    <p style="text-align: center; margin: 25px 0;">
                        <a href="{{.TrackingURL}}" target="_blank" style="display: inline-block; padding: 14px 28px; font-weight: bold; color: #ffffff; background-color: #e7a540; text-decoration: none; border-radius: 5px;">Acompanhar Entrega</a>
                    </p>
                    <table style="width: 100%; border-top: 1px solid #eeeeee; padding-top: 20px; font-size: 14px; color: #333;">
                        <tr><td><strong>Cód. Rastreio:</strong> {{.TrackingCode}}</td></tr>
                        <tr><td><strong>Produto:</strong> {{.Description}}</td></tr>
                        <tr><td><strong>Origem:</strong> {{.Origin}}</td></tr>
                        <tr><td><strong>Destino:</strong> {{.Destination}}</td></tr>
                        <tr><td><strong>Motorista:</strong> {{.Driver}}</td></tr>
                        <tr><td><strong>Veículo:</strong> {{.Vehicle}}</td></tr>
                    </table>
                </td>
            </tr>
        </table>
    </center>
</body>
</html>`))
