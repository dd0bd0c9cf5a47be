package services

import (
	"fmt"
	"strings"
	"testing"
)

func TestCRC16CCITT(t *testing.T) {
	// vetor clássico do CCITT-FALSE
	if got := crc16CCITT([]byte("123456789")); got != 0x29B1 {
		t.Fatalf("CRC de \"123456789\" esperado 29B1, veio %04X", got)
	}
}

func TestBuildPayload(t *testing.T) {
	pix := NewPixService("chave@vigia.com.br", "ASSOC VIGIA", "SAO PAULO")
	payload := pix.BuildPayload(132.00, "VIGIA7")

	if !strings.HasPrefix(payload, "000201") {
		t.Fatalf("payload deve começar com o indicador de formato: %s", payload)
	}
	if !strings.Contains(payload, "br.gov.bcb.pix") {
		t.Fatal("payload sem o GUI do arranjo PIX")
	}
	if !strings.Contains(payload, "5303986") {
		t.Fatal("payload sem a moeda BRL (986)")
	}
	if !strings.Contains(payload, "5406132.00") {
		t.Fatal("payload sem o valor da cobrança")
	}
	if !strings.Contains(payload, "VIGIA7") {
		t.Fatal("payload sem o txid")
	}

	// o CRC final precisa bater com o recalculado sobre o corpo + "6304"
	body := payload[:len(payload)-4]
	want := fmt.Sprintf("%04X", crc16CCITT([]byte(body)))
	if payload[len(payload)-4:] != want {
		t.Fatalf("CRC não confere: esperado %s, veio %s", want, payload[len(payload)-4:])
	}
}

func TestBuildPayload_EmptyTxid(t *testing.T) {
	pix := NewPixService("chave@vigia.com.br", "ASSOC VIGIA", "SAO PAULO")
	payload := pix.BuildPayload(50.00, "")

	if !strings.Contains(payload, "6207"+"0503***") {
		t.Fatalf("txid vazio deve virar ***: %s", payload)
	}
}

func TestSanitizePixField(t *testing.T) {
	if got := sanitizePixField("Associação Águia!", 25); strings.ContainsAny(got, "çã!") {
		t.Fatalf("caracteres fora do conjunto deveriam cair: %q", got)
	}
	if got := sanitizePixField("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 10); len(got) != 10 {
		t.Fatalf("campo deveria ser truncado em 10: %q", got)
	}
	if got := sanitizePixField("!!!", 5); got != "***" {
		t.Fatalf("campo vazio após limpeza vira ***, veio %q", got)
	}
}
