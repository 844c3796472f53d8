package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studentportal/internal/payment"
)

// ipnAck is the acknowledgement body the gateway expects. It retries until
// it receives RspCode 00 or a terminal rejection.
type ipnAck struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type PaymentCallbackHandler struct {
	client *payment.Client
	logger *zap.Logger
}

func NewPaymentCallbackHandler(client *payment.Client, logger *zap.Logger) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{client: client, logger: logger}
}

// IPN handles the server-to-server notification. The acknowledgement codes
// follow the gateway contract: 00 confirms receipt, 01 unknown order, 02
// order already confirmed, 97 bad checksum, 99 for everything else. The
// response never includes hash material.
func (h *PaymentCallbackHandler) IPN(c echo.Context) error {
	result, err := h.client.HandleNotification(c.Request().Context(), c.QueryParams())
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrForged):
			return c.JSON(http.StatusOK, ipnAck{RspCode: "97", Message: "Invalid signature"})
		case errors.Is(err, payment.ErrMalformed):
			return c.JSON(http.StatusOK, ipnAck{RspCode: "99", Message: "Invalid request"})
		default:
			h.logger.Error("apply payment notification", zap.Error(err))
			return c.JSON(http.StatusOK, ipnAck{RspCode: "99", Message: "Unknown error"})
		}
	}

	switch result.Apply {
	case payment.ResultApplied:
		return c.JSON(http.StatusOK, ipnAck{RspCode: "00", Message: "Confirm success"})
	case payment.ResultAlreadySettled:
		return c.JSON(http.StatusOK, ipnAck{RspCode: "02", Message: "Order already confirmed"})
	case payment.ResultFeeNotFound:
		return c.JSON(http.StatusOK, ipnAck{RspCode: "01", Message: "Order not found"})
	default:
		// Failed transactions are acknowledged so the gateway stops retrying.
		return c.JSON(http.StatusOK, ipnAck{RspCode: "00", Message: "Confirm success"})
	}
}

var resultPage = template.Must(template.New("payment_result").Parse(`<!DOCTYPE html>
<html lang="vi">
<head>
<meta charset="utf-8">
<title>Kết quả thanh toán</title>
<style>
body { font-family: sans-serif; background: #f5f6fa; display: flex; justify-content: center; padding-top: 60px; }
.card { background: #fff; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,.1); padding: 32px 48px; text-align: center; max-width: 420px; }
.ok { color: #27ae60; }
.fail { color: #e74c3c; }
.detail { color: #555; margin-top: 12px; font-size: 14px; }
</style>
</head>
<body>
<div class="card">
{{if .Success}}<h2 class="ok">Thanh toán thành công</h2>{{else}}<h2 class="fail">Thanh toán không thành công</h2>{{end}}
<p class="detail">{{.Detail}}</p>
{{if .TxnRef}}<p class="detail">Mã giao dịch: {{.TxnRef}}</p>{{end}}
</div>
</body>
</html>
`))

type resultView struct {
	Success bool
	Detail  string
	TxnRef  string
}

// Return renders the post-payment page shown in the student's browser. It
// verifies the redirect parameters but the IPN remains the source of truth
// for settlement; this page only reports.
func (h *PaymentCallbackHandler) Return(c echo.Context) error {
	outcome, n := payment.Verify(c.QueryParams(), h.client.HashSecret())

	view := resultView{Detail: "Giao dịch không hợp lệ."}
	switch outcome {
	case payment.OutcomeAuthentic:
		view.TxnRef = n.TxnRef
		if n.Success() {
			view.Success = true
			view.Detail = "Học phí của bạn đã được ghi nhận."
		} else {
			view.Detail = "Giao dịch bị từ chối hoặc đã bị hủy."
		}
	case payment.OutcomeForged:
		h.logger.Warn("forged return redirect",
			zap.String("txn_ref", c.QueryParam("vnp_TxnRef")))
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return resultPage.Execute(c.Response(), view)
}
