package crypto

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/iudanet/notekeeper/internal/models"
)

// Fingerprint возвращает BLAKE2b-256 отпечаток содержимого заметки (hex).
// Поля кодируются с префиксом длины, поэтому ("ab", "c") и ("a", "bc")
// дают разные отпечатки. Теги нормализуются, порядок не важен.
func Fingerprint(title, body string, tags []string) string {
	h, _ := blake2b.New256(nil) // без ключа ошибка невозможна

	writeField := func(s string) {
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}

	writeField(title)
	writeField(body)
	for _, tag := range models.NormalizeTags(tags) {
		writeField(tag)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// NoteFingerprint is Fingerprint over an authoritative note.
func NoteFingerprint(n *models.Note) string {
	return Fingerprint(n.Title, n.Body, n.Tags)
}

// LocalFingerprint is Fingerprint over a local staging record.
func LocalFingerprint(n *models.LocalNote) string {
	return Fingerprint(n.Title, n.Body, n.Tags())
}
