package usuario

import "gorm.io/gorm"

type Repository interface {
	BuscarPorCorreo(db *gorm.DB, correo string) (*Usuario, error)
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	Guardar(db *gorm.DB, u *Usuario) error
	ActualizarContrasena(db *gorm.DB, id uint, hash string) error
	Contar(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorCorreo(db *gorm.DB, correo string) (*Usuario, error) {
	var u Usuario
	if err := db.Where("correo = ?", correo).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) Guardar(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) ActualizarContrasena(db *gorm.DB, id uint, hash string) error {
	return db.Model(&Usuario{}).Where("id = ?", id).Update("contrasena", hash).Error
}

func (r *repositoryImpl) Contar(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Usuario{}).Count(&total).Error
	return total, err
}
