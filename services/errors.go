package services

import "errors"

// Taksonomi error yang dipetakan controller ke kode HTTP. Pesan mentah
// provider tidak pernah diteruskan ke client.
var (
	// ErrValidation: bentuk/nilai request tidak valid; ditolak sebelum
	// ada efek samping.
	ErrValidation = errors.New("permintaan tidak valid")

	// ErrNotFound: entitas tidak ditemukan.
	ErrNotFound = errors.New("data tidak ditemukan")

	// ErrPreconditionFailed: transisi state tidak diizinkan dari kondisi
	// sekarang. UI diharapkan tidak menawarkan aksinya, tapi manager tetap
	// menolak.
	ErrPreconditionFailed = errors.New("status pesanan tidak memungkinkan aksi ini")

	// ErrRateLimited: ditolak sebelum pekerjaan mahal, dengan saran tunggu.
	ErrRateLimited = errors.New("terlalu banyak permintaan, coba lagi nanti")

	// ErrUpstreamUnavailable: provider eksternal (model, TTS) tidak bisa
	// dihubungi atau belum dikonfigurasi.
	ErrUpstreamUnavailable = errors.New("layanan eksternal sedang tidak tersedia")
)
