package legacy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Physical tables of the legacy portal database. The store never writes them; they document the
// columns the SELECTs in store.go depend on and let tests build a legacy database.

type Pegawai struct {
	ID       int    `gorm:"column:id;primaryKey"`
	Nama     string `gorm:"column:nama;size:150"`
	Email    string `gorm:"column:email;size:150"`
	Nip      string `gorm:"column:nip;size:30"`
	Password string `gorm:"column:password;size:255"`
	Level    string `gorm:"column:level;size:20"`
	Jabatan  string `gorm:"column:jabatan;size:150"`
	Aktif    bool   `gorm:"column:aktif"`
}

func (Pegawai) TableName() string { return "pegawai" }

type LaporanHarian struct {
	ID        int       `gorm:"column:id;primaryKey"`
	PegawaiId int       `gorm:"column:pegawai_id"`
	Tanggal   time.Time `gorm:"column:tanggal;type:date"`
	Judul     string    `gorm:"column:judul;size:191"`
	Uraian    string    `gorm:"column:uraian;type:text"`
	Status    string    `gorm:"column:status;size:20"`
}

func (LaporanHarian) TableName() string { return "laporan_harian" }

type Penilaian struct {
	ID                 int    `gorm:"column:id;primaryKey"`
	PegawaiId          int    `gorm:"column:pegawai_id"`
	Periode            string `gorm:"column:periode;size:7"`
	OrientasiPelayanan int    `gorm:"column:orientasi_pelayanan"`
	Integritas         int    `gorm:"column:integritas"`
	Komitmen           int    `gorm:"column:komitmen"`
	Disiplin           int    `gorm:"column:disiplin"`
	Kerjasama          int    `gorm:"column:kerjasama"`
	Kepemimpinan       int    `gorm:"column:kepemimpinan"`
	Inisiatif          int    `gorm:"column:inisiatif"`
	Catatan            string `gorm:"column:catatan;type:text"`
}

func (Penilaian) TableName() string { return "penilaian" }

type ProgramRow struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Kode string `gorm:"column:kode;size:50"`
	Nama string `gorm:"column:nama;size:255"`
}

func (ProgramRow) TableName() string { return "program" }

type Kegiatan struct {
	ID        int    `gorm:"column:id;primaryKey"`
	ProgramId int    `gorm:"column:program_id"`
	Kode      string `gorm:"column:kode;size:50"`
	Nama      string `gorm:"column:nama;size:255"`
}

func (Kegiatan) TableName() string { return "kegiatan" }

type Rekening struct {
	ID         int    `gorm:"column:id;primaryKey"`
	KegiatanId int    `gorm:"column:kegiatan_id"`
	Kode       string `gorm:"column:kode;size:50"`
	Nama       string `gorm:"column:nama;size:255"`
}

func (Rekening) TableName() string { return "rekening" }

type Anggaran struct {
	ID         int             `gorm:"column:id;primaryKey"`
	RekeningId int             `gorm:"column:rekening_id"`
	Tahun      int             `gorm:"column:tahun"`
	Pagu       decimal.Decimal `gorm:"column:pagu;type:decimal(20,2)"`
}

func (Anggaran) TableName() string { return "anggaran" }

type Realisasi struct {
	ID         int             `gorm:"column:id;primaryKey"`
	AnggaranId int             `gorm:"column:anggaran_id"`
	Bulan      int             `gorm:"column:bulan"`
	Jumlah     decimal.Decimal `gorm:"column:jumlah;type:decimal(20,2)"`
	Keterangan string          `gorm:"column:keterangan;type:text"`
}

func (Realisasi) TableName() string { return "realisasi" }

// AllTables lists the legacy tables, parents first.
func AllTables() []interface{} {
	return []interface{}{
		&Pegawai{}, &LaporanHarian{}, &Penilaian{},
		&ProgramRow{}, &Kegiatan{}, &Rekening{}, &Anggaran{}, &Realisasi{},
	}
}
