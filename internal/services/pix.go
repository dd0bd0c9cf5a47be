package services

import (
	"fmt"
	"strings"
)

// PixService monta o payload estático do BR Code (EMV-MPM) usado no QR de
// cobrança. Não há integração com o PSP — a conferência do pagamento é manual,
// feita pelo admin na aprovação.
type PixService struct {
	Key          string
	MerchantName string
	MerchantCity string
}

func NewPixService(key, merchantName, merchantCity string) *PixService {
	return &PixService{
		Key:          key,
		MerchantName: sanitizePixField(merchantName, 25),
		MerchantCity: sanitizePixField(merchantCity, 15),
	}
}

// BuildPayload gera o "copia e cola" do PIX para o valor e txid informados.
func (s *PixService) BuildPayload(amount float64, txid string) string {
	if txid == "" {
		txid = "***"
	}
	txid = sanitizePixField(txid, 25)

	merchantAccount := emvField("00", "br.gov.bcb.pix") + emvField("01", s.Key)

	var b strings.Builder
	b.WriteString(emvField("00", "01"))              // payload format
	b.WriteString(emvField("26", merchantAccount))   // merchant account info (PIX)
	b.WriteString(emvField("52", "0000"))            // merchant category code
	b.WriteString(emvField("53", "986"))             // moeda: BRL
	b.WriteString(emvField("54", fmt.Sprintf("%.2f", amount)))
	b.WriteString(emvField("58", "BR"))
	b.WriteString(emvField("59", s.MerchantName))
	b.WriteString(emvField("60", s.MerchantCity))
	b.WriteString(emvField("62", emvField("05", txid))) // additional data: txid

	payload := b.String() + "6304" // CRC vem por último, sobre tudo inclusive "6304"
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16CCITT — polinômio 0x1021, valor inicial 0xFFFF (exigência do BR Code).
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// sanitizePixField remove caracteres fora do conjunto aceito e trunca.
func sanitizePixField(s string, max int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-', r == '.', r == '*':
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if len(out) > max {
		out = out[:max]
	}
	if out == "" {
		return "***"
	}
	return out
}
