package cliente

import "gorm.io/gorm"

type Repository interface {
	Guardar(db *gorm.DB, c *Cliente) error
	BuscarPorID(db *gorm.DB, id uint) (*Cliente, error)
	BuscarPorIDCliente(db *gorm.DB, idCliente string) (*Cliente, error)
	ListarTodos(db *gorm.DB) ([]Cliente, error)
	Actualizar(db *gorm.DB, id uint, nuevosDatos *Cliente) error
	Eliminar(db *gorm.DB, id uint) error
	Contar(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Guardar(db *gorm.DB, c *Cliente) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) BuscarPorIDCliente(db *gorm.DB, idCliente string) (*Cliente, error) {
	var c Cliente
	if err := db.Where("id_cliente = ?", idCliente).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Cliente, error) {
	var clientes []Cliente
	err := db.Order("id_cliente ASC").Find(&clientes).Error
	return clientes, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, id uint, nuevosDatos *Cliente) error {
	var existente Cliente
	if err := db.First(&existente, id).Error; err != nil {
		return err
	}

	existente.IDCliente = nuevosDatos.IDCliente
	existente.Nombre = nuevosDatos.Nombre
	existente.Correo = nuevosDatos.Correo
	existente.Contacto = nuevosDatos.Contacto

	return db.Save(&existente).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&Cliente{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Contar(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Cliente{}).Count(&total).Error
	return total, err
}
