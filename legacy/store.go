package legacy

import (
	"context"

	"bitbucket.org/mmdatafocus/portal_backend/utils"
	"gorm.io/gorm"
)

// Store reads the legacy portal database. It only ever SELECTs.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Users(ctx context.Context) ([]User, error) {
	var rows []User
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			p.id AS id,
			COALESCE(p.nama, '') AS name,
			COALESCE(p.email, '') AS email,
			COALESCE(p.nip, '') AS nip,
			COALESCE(p.password, '') AS password,
			COALESCE(p.level, '') AS role,
			COALESCE(p.jabatan, '') AS position,
			COALESCE(p.aktif, 0) AS is_active
		FROM pegawai p
		ORDER BY p.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Email = utils.NormalizeEmail(rows[i].Email)
	}
	return rows, nil
}

func (s *Store) DailyReports(ctx context.Context) ([]DailyReport, error) {
	var rows []DailyReport
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			l.id AS id,
			COALESCE(p.email, '') AS user_email,
			l.tanggal AS report_date,
			COALESCE(l.judul, '') AS title,
			COALESCE(l.uraian, '') AS description,
			COALESCE(l.status, '') AS status
		FROM laporan_harian l
		LEFT JOIN pegawai p ON p.id = l.pegawai_id
		ORDER BY l.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].UserEmail = utils.NormalizeEmail(rows[i].UserEmail)
		if !rows[i].ReportDate.IsZero() {
			rows[i].ReportDate = utils.NormalizeDate(rows[i].ReportDate)
		}
	}
	return rows, nil
}

func (s *Store) Assessments(ctx context.Context) ([]Assessment, error) {
	var rows []Assessment
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			n.id AS id,
			COALESCE(p.email, '') AS user_email,
			COALESCE(n.periode, '') AS period,
			COALESCE(n.orientasi_pelayanan, 0) AS service,
			COALESCE(n.integritas, 0) AS integrity,
			COALESCE(n.komitmen, 0) AS commitment,
			COALESCE(n.disiplin, 0) AS discipline,
			COALESCE(n.kerjasama, 0) AS teamwork,
			COALESCE(n.kepemimpinan, 0) AS leadership,
			COALESCE(n.inisiatif, 0) AS initiative,
			COALESCE(n.catatan, '') AS notes
		FROM penilaian n
		LEFT JOIN pegawai p ON p.id = n.pegawai_id
		ORDER BY n.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].UserEmail = utils.NormalizeEmail(rows[i].UserEmail)
	}
	return rows, nil
}

func (s *Store) Programs(ctx context.Context) ([]Program, error) {
	var rows []Program
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			pr.id AS id,
			COALESCE(pr.kode, '') AS code,
			COALESCE(pr.nama, '') AS name
		FROM program pr
		ORDER BY pr.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Code = utils.NormalizeCode(rows[i].Code)
	}
	return rows, nil
}

func (s *Store) Activities(ctx context.Context) ([]Activity, error) {
	var rows []Activity
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			k.id AS id,
			COALESCE(pr.kode, '') AS program_code,
			COALESCE(k.kode, '') AS code,
			COALESCE(k.nama, '') AS name
		FROM kegiatan k
		LEFT JOIN program pr ON pr.id = k.program_id
		ORDER BY k.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ProgramCode = utils.NormalizeCode(rows[i].ProgramCode)
		rows[i].Code = utils.NormalizeCode(rows[i].Code)
	}
	return rows, nil
}

func (s *Store) Accounts(ctx context.Context) ([]Account, error) {
	var rows []Account
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			r.id AS id,
			COALESCE(k.kode, '') AS activity_code,
			COALESCE(r.kode, '') AS code,
			COALESCE(r.nama, '') AS name
		FROM rekening r
		LEFT JOIN kegiatan k ON k.id = r.kegiatan_id
		ORDER BY r.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ActivityCode = utils.NormalizeCode(rows[i].ActivityCode)
		rows[i].Code = utils.NormalizeCode(rows[i].Code)
	}
	return rows, nil
}

func (s *Store) Budgets(ctx context.Context) ([]Budget, error) {
	var rows []Budget
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			a.id AS id,
			COALESCE(k.kode, '') AS activity_code,
			COALESCE(r.kode, '') AS account_code,
			COALESCE(a.tahun, 0) AS fiscal_year,
			COALESCE(a.pagu, 0) AS amount
		FROM anggaran a
		LEFT JOIN rekening r ON r.id = a.rekening_id
		LEFT JOIN kegiatan k ON k.id = r.kegiatan_id
		ORDER BY a.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ActivityCode = utils.NormalizeCode(rows[i].ActivityCode)
		rows[i].AccountCode = utils.NormalizeCode(rows[i].AccountCode)
	}
	return rows, nil
}

func (s *Store) Realizations(ctx context.Context) ([]Realization, error) {
	var rows []Realization
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			x.id AS id,
			COALESCE(k.kode, '') AS activity_code,
			COALESCE(r.kode, '') AS account_code,
			COALESCE(a.tahun, 0) AS fiscal_year,
			COALESCE(x.bulan, 0) AS month,
			COALESCE(x.jumlah, 0) AS amount,
			COALESCE(x.keterangan, '') AS description
		FROM realisasi x
		LEFT JOIN anggaran a ON a.id = x.anggaran_id
		LEFT JOIN rekening r ON r.id = a.rekening_id
		LEFT JOIN kegiatan k ON k.id = r.kegiatan_id
		ORDER BY x.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ActivityCode = utils.NormalizeCode(rows[i].ActivityCode)
		rows[i].AccountCode = utils.NormalizeCode(rows[i].AccountCode)
	}
	return rows, nil
}
