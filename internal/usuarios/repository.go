package usuarios

import (
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, u *models.Usuario) error
	BuscarPorCorreo(db *gorm.DB, correo string) (*models.Usuario, error)
	BuscarPorID(db *gorm.DB, id uint) (*models.Usuario, error)
	ListarTodos(db *gorm.DB) ([]models.Usuario, error)
	Guardar(db *gorm.DB, u *models.Usuario) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, u *models.Usuario) error {
	return db.Create(u).Error
}

// BuscarPorCorreo compara sobre la forma en minúsculas; el correo se
// guarda ya normalizado.
func (r *repositoryImpl) BuscarPorCorreo(db *gorm.DB, correo string) (*models.Usuario, error) {
	var u models.Usuario
	err := db.Where("correo = ?", models.NormalizarCorreo(correo)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*models.Usuario, error) {
	var u models.Usuario
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]models.Usuario, error) {
	var usuarios []models.Usuario
	err := db.Order("apellido, nombre").Find(&usuarios).Error
	return usuarios, err
}

func (r *repositoryImpl) Guardar(db *gorm.DB, u *models.Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Unscoped().Delete(&models.Usuario{}, id).Error
}
