// internal/printer/classify.go
package printer

import (
	"fmt"
	"strings"

	"label-print-service/internal/model"
)

// User-facing messages. The product ships in Portuguese.
const (
	MsgSuccess        = "Dados enviados com sucesso!"
	MsgSuccessDetails = "Impressão enviada com sucesso"

	MsgPrinterTimeout = "Impressora não responde (timeout)"
	MsgNetworkProblem = "Problema de rede"
	MsgPrinterOff     = "Impressora desligada"

	MsgConnectTimeout        = "Impressora não responde"
	MsgConnectTimeoutDetails = "Timeout de conexão"

	MsgWriteError = "Erro ao enviar dados para impressora"

	MsgWriteRejected        = "Falha ao enviar dados"
	MsgWriteRejectedDetails = "A impressora não conseguiu receber os dados"

	MsgOperationTimeout = "Timeout na operação de impressão"
	MsgCancelled        = "Impressão cancelada"
	MsgInternalError    = "Erro interno"
)

// Indicators are matched against the lower-cased error message, in order.
var (
	timeoutIndicators     = []string{"etimedout", "timeout", "timed out"}
	unreachableIndicators = []string{"enetunreach", "network is unreachable"}
)

type errorBucket int

const (
	bucketTimeout errorBucket = iota
	bucketNetwork
	bucketOffline
)

func bucketOf(err error) errorBucket {
	if err == nil {
		return bucketOffline
	}
	msg := strings.ToLower(err.Error())
	if containsAny(msg, timeoutIndicators) {
		return bucketTimeout
	}
	if containsAny(msg, unreachableIndicators) {
		return bucketNetwork
	}
	return bucketOffline
}

// ClassifyError maps a connection error to an actionable result. Refused,
// host-unreachable and unrecognized errors all read as a powered-off printer.
func ClassifyError(err error, settings model.PrinterSettings) model.PrintResult {
	switch bucketOf(err) {
	case bucketTimeout:
		return model.PrintResult{
			Success: false,
			Message: MsgPrinterTimeout,
			Details: fmt.Sprintf("A impressora em %s demorou muito para responder. Verifique se está ligada.", settings.Address()),
		}
	case bucketNetwork:
		return model.PrintResult{
			Success: false,
			Message: MsgNetworkProblem,
			Details: "Não foi possível acessar a rede. Verifique sua conexão Wi-Fi.",
		}
	default:
		return model.PrintResult{
			Success: false,
			Message: MsgPrinterOff,
			Details: fmt.Sprintf("A impressora em %s não está respondendo. Verifique se está ligada e conectada à rede.", settings.Address()),
		}
	}
}

// ClassifyStatus returns the history status matching ClassifyError
func ClassifyStatus(err error) model.HistoryStatus {
	if bucketOf(err) == bucketTimeout {
		return model.HistoryStatusTimeout
	}
	return model.HistoryStatusError
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func connectTimeoutResult() model.PrintResult {
	return model.PrintResult{Success: false, Message: MsgConnectTimeout, Details: MsgConnectTimeoutDetails}
}

func operationTimeoutResult(settings model.PrinterSettings) model.PrintResult {
	return model.PrintResult{
		Success: false,
		Message: MsgOperationTimeout,
		Details: fmt.Sprintf("Tempo limite de %ds excedido", settings.TimeoutSeconds),
	}
}

func writeErrorResult(err error) model.PrintResult {
	return model.PrintResult{Success: false, Message: MsgWriteError, Details: err.Error()}
}

func writeRejectedResult() model.PrintResult {
	return model.PrintResult{Success: false, Message: MsgWriteRejected, Details: MsgWriteRejectedDetails}
}

func successResult() model.PrintResult {
	return model.PrintResult{Success: true, Message: MsgSuccess, Details: MsgSuccessDetails}
}

func cancelledResult(err error) model.PrintResult {
	return model.PrintResult{Success: false, Message: MsgCancelled, Details: err.Error()}
}

func internalErrorResult(recovered interface{}) model.PrintResult {
	return model.PrintResult{Success: false, Message: MsgInternalError, Details: fmt.Sprint(recovered)}
}
