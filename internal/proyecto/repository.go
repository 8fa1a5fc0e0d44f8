package proyecto

import "gorm.io/gorm"

type Repository interface {
	Guardar(db *gorm.DB, p *Proyecto) error
	BuscarPorID(db *gorm.DB, id uint) (*Proyecto, error)
	ListarTodos(db *gorm.DB) ([]Proyecto, error)
	ListarPorCliente(db *gorm.DB, idCliente string) ([]Proyecto, error)
	Actualizar(db *gorm.DB, id uint, nuevosDatos *Proyecto) error
	ReemplazarParcialidades(db *gorm.DB, id uint, parcialidades []Parcialidad) error
	Eliminar(db *gorm.DB, id uint) error
	Contar(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Guardar(db *gorm.DB, p *Proyecto) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Proyecto, error) {
	var p Proyecto
	err := db.Preload("FacturasParcialidades").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Proyecto, error) {
	var proyectos []Proyecto
	err := db.Preload("FacturasParcialidades").Order("id ASC").Find(&proyectos).Error
	return proyectos, err
}

func (r *repositoryImpl) ListarPorCliente(db *gorm.DB, idCliente string) ([]Proyecto, error) {
	var proyectos []Proyecto
	err := db.Preload("FacturasParcialidades").
		Where("id_cliente = ?", idCliente).
		Order("id ASC").
		Find(&proyectos).Error
	return proyectos, err
}

// Actualizar sustituye los campos del proyecto y su plan de pagos completo
// dentro de una transacción.
func (r *repositoryImpl) Actualizar(db *gorm.DB, id uint, nuevosDatos *Proyecto) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existente Proyecto
		if err := tx.First(&existente, id).Error; err != nil {
			return err
		}

		existente.IDCliente = nuevosDatos.IDCliente
		existente.NombreCliente = nuevosDatos.NombreCliente
		existente.IDCotizacion = nuevosDatos.IDCotizacion
		existente.MontoTotal = nuevosDatos.MontoTotal
		existente.RequiereLevantamientoTecnico = nuevosDatos.RequiereLevantamientoTecnico
		existente.Realizado = nuevosDatos.Realizado
		existente.Fincado = nuevosDatos.Fincado
		existente.FechaInicio = nuevosDatos.FechaInicio
		existente.FechaTermino = nuevosDatos.FechaTermino
		existente.OrdenCompra = nuevosDatos.OrdenCompra
		existente.Facturado = nuevosDatos.Facturado
		existente.FormaDePago = nuevosDatos.FormaDePago
		existente.FolioControl = nuevosDatos.FolioControl
		existente.FolioFiscal = nuevosDatos.FolioFiscal
		existente.FacturaCerrada = nuevosDatos.FacturaCerrada

		if err := tx.Save(&existente).Error; err != nil {
			return err
		}
		return reemplazarParcialidades(tx, id, nuevosDatos.FacturasParcialidades)
	})
}

// ReemplazarParcialidades descarta el plan de pagos actual y crea el nuevo.
func (r *repositoryImpl) ReemplazarParcialidades(db *gorm.DB, id uint, parcialidades []Parcialidad) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return reemplazarParcialidades(tx, id, parcialidades)
	})
}

func reemplazarParcialidades(tx *gorm.DB, id uint, parcialidades []Parcialidad) error {
	if err := tx.Where("proyecto_id = ?", id).Delete(&Parcialidad{}).Error; err != nil {
		return err
	}
	if len(parcialidades) == 0 {
		return nil
	}
	for i := range parcialidades {
		parcialidades[i].ID = 0
		parcialidades[i].ProyectoID = id
	}
	return tx.Create(&parcialidades).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("proyecto_id = ?", id).Delete(&Parcialidad{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Proyecto{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *repositoryImpl) Contar(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Proyecto{}).Count(&total).Error
	return total, err
}
